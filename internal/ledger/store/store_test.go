package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_InsertionOrder(t *testing.T) {
	order := listQuery[strings.Index(listQuery, "ORDER BY"):]

	assert.Equal(t, "ORDER BY seq DESC", strings.TrimSpace(order))
}
