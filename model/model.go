/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUUIDWithPrefix generates a UUID prefixed with a module name.
// This is useful for creating unique identifiers with context-specific prefixes.
func GenerateUUIDWithPrefix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}

// GenerateParticipantID generates a 32 character participant id: a UUID with
// the separators stripped. Used when a participant is created without an
// explicit id.
func GenerateParticipantID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// NowMillis returns the current wall-clock time as unix milliseconds.
// Change-log ordering relies on millisecond timestamps.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
