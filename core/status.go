// Copyright (c) 2022-2026 Vexel Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package core

import "fmt"

// StatusCode classifies worker failures. The coordinator reacts to the
// code; Message is for humans.
type StatusCode int

// Known worker status codes.
const (
	StatusCancelled StatusCode = iota + 1
	StatusLocalFileGone
	StatusRemoteNotFound
	StatusForbidden
	StatusRemoteUnavailable
	StatusPartialRemoteLost
	StatusGenerateFailed
	StatusInternal
)

func (c StatusCode) String() string {
	switch c {
	case StatusCancelled:
		return "cancelled"
	case StatusLocalFileGone:
		return "local_file_gone"
	case StatusRemoteNotFound:
		return "remote_not_found"
	case StatusForbidden:
		return "forbidden"
	case StatusRemoteUnavailable:
		return "remote_unavailable"
	case StatusPartialRemoteLost:
		return "partial_remote_lost"
	case StatusGenerateFailed:
		return "generate_failed"
	case StatusInternal:
		return "internal"
	}
	return "unknown"
}

// Status is a worker-reported error condition.
type Status struct {
	Code    StatusCode
	Message string
}

// NewStatus creates a Status with a formatted message.
func NewStatus(code StatusCode, format string, args ...interface{}) Status {
	return Status{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface so a Status can be surfaced to
// subscriber callbacks directly.
func (s Status) Error() string {
	if s.Message == "" {
		return s.Code.String()
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Message)
}
