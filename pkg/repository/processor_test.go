package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasVersionColumn(t *testing.T) {
	type versioned struct {
		ID      uint64 `xorm:"pk autoincr 'id'"`
		Name    string `xorm:"'name'"`
		Version int    `xorm:"version 'version'"`
	}
	type unversioned struct {
		ID   uint64 `xorm:"pk autoincr 'id'"`
		Name string `xorm:"'name'"`
	}

	assert.True(t, hasVersionColumn(&versioned{}))
	assert.True(t, hasVersionColumn(versioned{}))
	assert.False(t, hasVersionColumn(&unversioned{}))
	assert.False(t, hasVersionColumn(nil))
}
