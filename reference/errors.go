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

package reference

import (
	"fmt"
)

// This error type is returned when a reference dataset is missing or
// malformed. Any enrichment depending on the dataset cannot run, but other
// enrichments may proceed.
type LoadError struct {
	Dataset, Message string
}

func (e LoadError) Error() string {
	return fmt.Sprintf("Couldn't load reference dataset '%s': %s", e.Dataset, e.Message)
}

// indicates that a dataset carries the same join key twice; duplicates are a
// configuration error, never silently resolved
type DuplicateKeyError struct {
	Dataset, Key string
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("Duplicate join key '%s' in reference dataset '%s'", e.Key, e.Dataset)
}

// This error type is returned when a dataset is sought but not found.
type NotFoundError struct {
	Dataset string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("The reference dataset '%s' was not found", e.Dataset)
}
