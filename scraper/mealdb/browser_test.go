package mealdb

import (
	"context"
	"testing"

	"recipebox/config"
	"recipebox/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBody(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "object", text: `{"meals":null}`, want: `{"meals":null}`},
		{name: "padded", text: "\n  {\"meals\":[]}  \n", want: `{"meals":[]}`},
		{name: "challenge page", text: "Checking your browser before accessing...", wantErr: true},
		{name: "empty", text: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsonBody("https://api.test/search.php?s=x", tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "not JSON")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestBrowserGetter_CancelledBeforeStart(t *testing.T) {
	b := NewBrowserGetter(config.Default(), utils.NewNopLogger())

	// closing a getter that never launched Chrome is a no-op
	b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Get(ctx, "https://api.test/search.php?s=x")
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, b.browser)

	b.Close()
}
