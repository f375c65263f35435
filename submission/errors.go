// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package submission

import (
	"fmt"
	"strings"
)

// one field-level schema violation for a record
type ValidationError struct {
	// the submission target whose schema was violated
	Target string
	// the offending record field ("" for record-level problems)
	Field string
	// what the schema had to say
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("Field '%s' violates the %s schema: %s", e.Field, e.Target, e.Message)
	}
	return fmt.Sprintf("Record violates the %s schema: %s", e.Target, e.Message)
}

// the complete set of violations found for one record; reported per record
// and never aborts a batch
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	messages := make([]string, len(e))
	for i, violation := range e {
		messages[i] = violation.Error()
	}
	return strings.Join(messages, "; ")
}

// indicates that a target's JSON Schema itself could not be compiled
type InvalidSchemaError struct {
	Target, Message string
}

func (e InvalidSchemaError) Error() string {
	return fmt.Sprintf("Couldn't compile JSON schema for target '%s': %s", e.Target, e.Message)
}
