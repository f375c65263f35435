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
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// tests opening a dataset file and finding it in the registry afterwards
func TestOpenRegistersDataset(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(TESTING_DIR, "geo_loc_cities.json")
	table, err := Open(path)
	assert.Nil(err)
	assert.Equal("geo_loc_cities.json", table.Name())
	assert.Equal(1, table.Len())

	// the dataset is looked up by its base name
	table1, err := Lookup("geo_loc_cities.json")
	assert.Nil(err)
	assert.Equal(table.Name(), table1.Name())

	// a second Open serves the cached table
	table2, err := Open(path)
	assert.Nil(err)
	assert.Equal(table.Len(), table2.Len())
}

// tests that opening a nonexistent file reports a load error
func TestOpenRejectsMissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := Open(filepath.Join(TESTING_DIR, "no_such_dataset.json"))
	assert.NotNil(err)
	var loadErr *LoadError
	assert.True(errors.As(err, &loadErr))
}

// tests registering a synthetic table and looking it up
func TestRegisterAndLookup(t *testing.T) {
	assert := assert.New(t)

	Register(NewTable("anatomical_material_collection_method.json",
		map[string]map[string]string{
			"Saliva": {"anatomical_material": "Saliva"},
		}))

	table, err := Lookup("anatomical_material_collection_method.json")
	assert.Nil(err)
	assert.Equal(1, table.Len())

	_, err = Lookup("unregistered.json")
	assert.NotNil(err)
	var notFound *NotFoundError
	assert.True(errors.As(err, &notFound))
}

// this function gets called at the begіnning of a test session
func setup() {
	var err error
	TESTING_DIR, err = os.MkdirTemp(os.TempDir(), "mds-reference-tests-")
	if err != nil {
		log.Panicf("Couldn't create testing directory: %s", err)
	}
	data := `{"Madrid": {"geo_loc_latitude": "40.4168", "geo_loc_longitude": "-3.7038"}}`
	err = os.WriteFile(filepath.Join(TESTING_DIR, "geo_loc_cities.json"), []byte(data), 0644)
	if err != nil {
		log.Panicf("Couldn't write test dataset: %s", err)
	}
}

// this function gets called after all tests have been run
func breakdown() {
	if TESTING_DIR != "" {
		os.RemoveAll(TESTING_DIR)
	}
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}

// temporary testing directory
var TESTING_DIR string
