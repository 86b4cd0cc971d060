package custom_error

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorPredicates(t *testing.T) {
	nf := NotFound("device %d not found", 7)
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsConflict(nf))
	assert.Equal(t, "device 7 not found", nf.Error())

	conflict := Conflict("no available seats")
	assert.True(t, IsConflict(conflict))
	assert.False(t, IsInvalidState(conflict))

	invalid := InvalidState("assignment is not active")
	assert.True(t, IsInvalidState(invalid))
	assert.False(t, IsNotFound(invalid))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("assign device: %w", Conflict("device is not available"))
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestWrapDBError(t *testing.T) {
	err := WrapDBError("duplicate serial", "23505")
	_, ok := err.(*UniqueViolationError)
	assert.True(t, ok)

	err = WrapDBError("employee still referenced", "23503")
	_, ok = err.(*ForeignKeyViolationError)
	assert.True(t, ok)
}
