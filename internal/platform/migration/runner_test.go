// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/quill":   "pgx5://u:p@localhost:5432/quill",
		"postgresql://u:p@localhost:5432/quill": "pgx5://u:p@localhost:5432/quill",
		"pgx5://u:p@localhost:5432/quill":       "pgx5://u:p@localhost:5432/quill",
		"host=localhost dbname=quill":           "host=localhost dbname=quill",
	}

	for input, want := range cases {
		assert.Equal(t, want, ToPgx5DSN(input), input)
	}
}
