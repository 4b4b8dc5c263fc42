package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/tabula/pkg/pagination"
)

func TestValidateJump(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		raw       string
		pageCount int
		want      int
		ok        bool
	}{
		"first page":        {raw: "1", pageCount: 10, want: 1, ok: true},
		"last page":         {raw: "10", pageCount: 10, want: 10, ok: true},
		"surrounding space": {raw: "  4 ", pageCount: 10, want: 4, ok: true},
		"above range":       {raw: "999", pageCount: 10},
		"zero":              {raw: "0", pageCount: 10},
		"negative":          {raw: "-2", pageCount: 10},
		"no pages":          {raw: "1", pageCount: 0},
		"empty":             {raw: "", pageCount: 10},
		"letters":           {raw: "abc", pageCount: 10},
		"decimal":           {raw: "2.5", pageCount: 10},
		"trailing garbage":  {raw: "3x", pageCount: 10},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, ok := pagination.ValidateJump(tc.raw, tc.pageCount)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
