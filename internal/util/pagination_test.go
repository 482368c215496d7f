package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name             string
		n, page, size    int
		wantFrom, wantTo int
	}{
		{name: "first page", n: 25, page: 1, size: 10, wantFrom: 0, wantTo: 10},
		{name: "last partial", n: 25, page: 3, size: 10, wantFrom: 20, wantTo: 25},
		{name: "past end", n: 25, page: 9, size: 10, wantFrom: 25, wantTo: 25},
		{name: "defaults", n: 25, page: 0, size: 0, wantFrom: 0, wantTo: 10},
		{name: "oversized", n: 300, page: 1, size: 500, wantFrom: 0, wantTo: 10},
		{name: "empty", n: 0, page: 1, size: 10, wantFrom: 0, wantTo: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := Window(tt.n, tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}
