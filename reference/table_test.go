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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// a small institution dataset, as the real auxiliary files are shaped
const addressData = `{
  "Hospital La Paz": {
    "collecting_institution_address": "Paseo de la Castellana, 261",
    "geo_loc_state": "Madrid"
  },
  "Hospital Clinic": {
    "collecting_institution_address": "Carrer de Villarroel, 170",
    "geo_loc_state": "Catalunya"
  }
}`

// tests loading a valid dataset
func TestLoadValidDataset(t *testing.T) {
	assert := assert.New(t)

	table, err := Load("laboratory_address.json", strings.NewReader(addressData))
	assert.Nil(err)
	assert.Equal("laboratory_address.json", table.Name())
	assert.Equal(2, table.Len())
	assert.Equal([]string{"Hospital Clinic", "Hospital La Paz"}, table.Keys())

	row, found := table.Lookup("Hospital La Paz")
	assert.True(found)
	assert.Equal("Madrid", row["geo_loc_state"])

	_, found = table.Lookup("Hospital del Mar")
	assert.False(found)
}

// tests that a duplicate join key is reported rather than silently resolved
func TestLoadRejectsDuplicateKey(t *testing.T) {
	assert := assert.New(t)

	data := `{
  "Hospital La Paz": {"geo_loc_state": "Madrid"},
  "Hospital La Paz": {"geo_loc_state": "Catalunya"}
}`
	_, err := Load("laboratory_address.json", strings.NewReader(data))
	assert.NotNil(err)
	var dupErr *DuplicateKeyError
	assert.True(errors.As(err, &dupErr))
	assert.Equal("Hospital La Paz", dupErr.Key)
}

// tests that non-object data is rejected
func TestLoadRejectsNonObjectData(t *testing.T) {
	assert := assert.New(t)

	_, err := Load("laboratory_address.json", strings.NewReader(`["not", "an", "object"]`))
	assert.NotNil(err)
	var loadErr *LoadError
	assert.True(errors.As(err, &loadErr))
}

// tests that non-string scalar row values are rendered as strings
func TestLoadFlattensScalarValues(t *testing.T) {
	assert := assert.New(t)

	data := `{"Madrid": {"geo_loc_latitude": 40.4168, "landlocked": true, "notes": null}}`
	table, err := Load("geo_loc_cities.json", strings.NewReader(data))
	assert.Nil(err)

	row, found := table.Lookup("Madrid")
	assert.True(found)
	assert.Equal("40.4168", row["geo_loc_latitude"])
	assert.Equal("true", row["landlocked"])
	assert.Equal("", row["notes"])
}
