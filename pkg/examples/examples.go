// Package examples bundles a few small integer programs.
package examples

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/operator-framework/bnb/pkg/model"
)

//go:embed models/*.yaml
var models embed.FS

type Example struct {
	Number int
	File   string
	Model  *model.Model
}

// All returns the bundled examples ordered by number.
func All() ([]Example, error) {
	entries, err := fs.ReadDir(models, "models")
	if err != nil {
		return nil, err
	}
	var all []Example
	for _, e := range entries {
		number, err := strconv.Atoi(strings.SplitN(e.Name(), "-", 2)[0])
		if err != nil {
			return nil, fmt.Errorf("example file %s is not numbered: %w", e.Name(), err)
		}
		data, err := models.ReadFile(path.Join("models", e.Name()))
		if err != nil {
			return nil, err
		}
		m, err := model.ParseBytes(data)
		if err != nil {
			return nil, fmt.Errorf("error parsing example %s: %w", e.Name(), err)
		}
		all = append(all, Example{Number: number, File: e.Name(), Model: m})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	return all, nil
}

// Get returns the example with the given number.
func Get(number int) (Example, error) {
	all, err := All()
	if err != nil {
		return Example{}, err
	}
	for _, e := range all {
		if e.Number == number {
			return e, nil
		}
	}
	return Example{}, fmt.Errorf("no example number %d", number)
}
