package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil opener returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingOpener)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Open: newFixture().open})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestMergeTarget(t *testing.T) {
	tests := []struct {
		name     string
		defaults domain.DatabaseTarget
		in       TargetInput
		want     domain.DatabaseTarget
		wantErr  bool
	}{
		{
			name:     "defaults only",
			defaults: defaultTarget,
			want:     defaultTarget,
		},
		{
			name:     "input overrides defaults",
			defaults: defaultTarget,
			in:       TargetInput{Database: "other"},
			want:     domain.DatabaseTarget{Project: "proj", Instance: "inst", Database: "other"},
		},
		{
			name:    "incomplete without defaults",
			in:      TargetInput{Project: "proj"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mergeTarget(tt.defaults, tt.in)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServer_SetDefaults(t *testing.T) {
	f := newFixture()
	server := f.server(t)
	other := domain.DatabaseTarget{Project: "p2", Instance: "i2", Database: "d2"}

	server.SetDefaults(other, time.Second)

	target, accuracy := server.Defaults()
	assert.Equal(t, other, target)
	assert.Equal(t, time.Second, accuracy)

	_, out, err := server.handleDescribe(context.Background(), nil, TargetInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, out.State)
	assert.Equal(t, []domain.DatabaseTarget{other}, f.opened)
}
