package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qasimqz1/ecommerce/pkg/logger"

	"github.com/qasimqz1/ecommerce/internal/store"
	"github.com/qasimqz1/ecommerce/internal/store/memory"
	"github.com/qasimqz1/ecommerce/internal/store/storetest"
)

// ============================================================================
// ValidateField
// ============================================================================

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		field string
		value string
		want  string
	}{
		{name: "email empty", mode: ModeLogin, field: FieldEmail, value: "  ", want: "Email is required."},
		{name: "email malformed", mode: ModeLogin, field: FieldEmail, value: "a@b", want: "Enter a valid email."},
		{name: "email with space", mode: ModeLogin, field: FieldEmail, value: "a b@c.io", want: "Enter a valid email."},
		{name: "email ok", mode: ModeLogin, field: FieldEmail, value: " a@b.co ", want: ""},
		{name: "password empty", mode: ModeLogin, field: FieldPassword, value: "", want: "Password is required."},
		{name: "password short", mode: ModeLogin, field: FieldPassword, value: "12345", want: "Password must be at least 6 characters."},
		{name: "password trimmed before length", mode: ModeLogin, field: FieldPassword, value: " 12345 ", want: "Password must be at least 6 characters."},
		{name: "password ok", mode: ModeLogin, field: FieldPassword, value: "123456", want: ""},
		{name: "name ignored on login", mode: ModeLogin, field: FieldName, value: "", want: ""},
		{name: "name empty on signup", mode: ModeSignup, field: FieldName, value: "", want: "Full name is required."},
		{name: "name short on signup", mode: ModeSignup, field: FieldName, value: "Q", want: "Please enter at least 2 characters."},
		{name: "name ok on signup", mode: ModeSignup, field: FieldName, value: "Qa", want: ""},
		{name: "unknown field", mode: ModeSignup, field: "nickname", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateField(tt.mode, tt.field, tt.value))
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeLogin, m)

	m, err = ParseMode("SignUp")
	require.NoError(t, err)
	assert.Equal(t, ModeSignup, m)

	_, err = ParseMode("register")
	require.Error(t, err)
}

// ============================================================================
// Gate
// ============================================================================

func TestGate_RequiredUntilSubmitted(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	g := NewGate(backing, logger.Discard())

	assert.True(t, g.Required(ctx, "p1"))

	out := g.Submit(ctx, "p1", Credentials{Mode: ModeLogin, Email: "  shopper@qz.io ", Password: "secret1"})
	require.True(t, out.Authenticated)
	assert.Equal(t, "shopper@qz.io", out.Marker)
	assert.Equal(t, WelcomeMessage, out.Message)
	assert.Empty(t, out.Errors)

	assert.False(t, g.Required(ctx, "p1"))
	assert.True(t, g.Required(ctx, "p2"))

	raw, err := backing.Get(ctx, "profile:p1:"+store.KeyAuthMarker)
	require.NoError(t, err)
	assert.Equal(t, "shopper@qz.io", raw)
}

func TestGate_EmptyMarkerStillGated(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	require.NoError(t, store.ForProfile(backing, "p1").Set(ctx, store.KeyAuthMarker, ""))

	assert.True(t, NewGate(backing, logger.Discard()).Required(ctx, "p1"))
}

func TestGate_SubmitInvalid(t *testing.T) {
	ctx := context.Background()
	backing := memory.NewStore()
	g := NewGate(backing, logger.Discard())

	out := g.Submit(ctx, "p1", Credentials{Mode: ModeSignup, Email: "nope", Name: "", Password: "123"})

	assert.False(t, out.Authenticated)
	assert.Equal(t, FieldErrors{
		FieldEmail:    "Enter a valid email.",
		FieldName:     "Full name is required.",
		FieldPassword: "Password must be at least 6 characters.",
	}, out.Errors)
	assert.Equal(t, FieldEmail, out.FirstInvalid)
	assert.Zero(t, backing.Len())
	assert.True(t, g.Required(ctx, "p1"))
}

func TestGate_SubmitFirstInvalidFollowsFormOrder(t *testing.T) {
	g := NewGate(memory.NewStore(), logger.Discard())

	out := g.Submit(context.Background(), "p1", Credentials{Mode: ModeSignup, Email: "a@b.co", Name: "Q", Password: ""})

	assert.Equal(t, FieldName, out.FirstInvalid)
	assert.Len(t, out.Errors, 2)
}

func TestGate_LoginIgnoresName(t *testing.T) {
	g := NewGate(memory.NewStore(), logger.Discard())

	out := g.Submit(context.Background(), "p1", Credentials{Mode: ModeLogin, Email: "a@b.co", Password: "123456"})

	assert.True(t, out.Authenticated)
}

func TestGate_StorageFailures(t *testing.T) {
	ctx := context.Background()
	ms := new(storetest.MockStore)
	ms.On("Get", mock.Anything, "profile:p1:"+store.KeyAuthMarker).Return("", errors.New("connection refused"))
	ms.On("Set", mock.Anything, "profile:p1:"+store.KeyAuthMarker, "a@b.co").Return(errors.New("connection refused"))

	g := NewGate(ms, logger.Discard())

	assert.True(t, g.Required(ctx, "p1"))

	out := g.Submit(ctx, "p1", Credentials{Mode: ModeLogin, Email: "a@b.co", Password: "123456"})
	assert.True(t, out.Authenticated)

	ms.AssertExpectations(t)
}
