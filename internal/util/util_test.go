package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewULID(t *testing.T) {
	first := NewULID()
	second := NewULID()

	assert.Len(t, first, 26)
	assert.True(t, IsULID(first))
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second, "ids generated in sequence sort in creation order")
}

func TestIsULID(t *testing.T) {
	assert.True(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.False(t, IsULID(""))
	assert.False(t, IsULID("not-a-ulid"))
	assert.False(t, IsULID("01ARZ3NDEKTSV4RRFFQ69G5FA"))
}

func TestStringToNullString(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)
	ns := StringToNullString("title")
	assert.True(t, ns.Valid)
	assert.Equal(t, "title", ns.String)
}

func TestTimeConversions(t *testing.T) {
	assert.False(t, TimeToNullTime(time.Time{}).Valid)
	assert.False(t, TimePtrToNullTime(nil).Valid)
	assert.Nil(t, NullTimeToTimePtr(TimePtrToNullTime(nil)))

	now := time.Now()
	nt := TimePtrToNullTime(&now)
	assert.True(t, nt.Valid)
	back := NullTimeToTimePtr(nt)
	if assert.NotNil(t, back) {
		assert.True(t, now.Equal(*back))
	}
}

func TestBoolToInt(t *testing.T) {
	assert.Equal(t, 1, BoolToInt(true))
	assert.Equal(t, 0, BoolToInt(false))
}
