// Copyright 2023 Texas Instruments Incorporated. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package mspm0

import (
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// SetLogger redirects the package's log output to a caller-owned
// logrus instance.
func SetLogger(loggerInstance *logrus.Logger) {
	logger = loggerInstance
}
