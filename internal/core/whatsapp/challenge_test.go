package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleChallenge(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		token    string
		expected string
		want     string
		wantErr  error
	}{
		{"echo", "subscribe", "tok", "tok", "1158201444", nil},
		{"missing mode", "", "tok", "tok", "", ErrMissingParameters},
		{"missing token", "subscribe", "", "tok", "", ErrMissingParameters},
		{"wrong token", "subscribe", "nope", "tok", "", ErrTokenMismatch},
		{"wrong mode", "unsubscribe", "tok", "tok", "", ErrTokenMismatch},
		{"unconfigured", "subscribe", "tok", "", "", ErrTokenMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HandleChallenge(tt.mode, tt.token, "1158201444", tt.expected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleChallenge_EmptyChallengeEchoed(t *testing.T) {
	got, err := HandleChallenge("subscribe", "tok", "", "tok")
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}
