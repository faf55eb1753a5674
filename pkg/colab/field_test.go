package colab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimFieldName(t *testing.T) {
	assert.Equal(t, "learning_rate", trimFieldName("learning_rate:"))
	assert.Equal(t, "epochs", trimFieldName("epochs"))
	assert.Equal(t, "url:", trimFieldName("url::"))
	assert.Equal(t, "", trimFieldName(":"))
}

func TestContains(t *testing.T) {
	assert.True(t, contains([]string{"adam", "sgd"}, "sgd"))
	assert.False(t, contains([]string{"adam", "sgd"}, "SGD"))
	assert.False(t, contains(nil, ""))
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.setDefaults()

	assert.Equal(t, DefaultBaseURL, opts.BaseURL)
	assert.Equal(t, DefaultLoadTimeout, opts.LoadTimeout)
	assert.Equal(t, DefaultDialogTimeout, opts.DialogTimeout)
	assert.Equal(t, DefaultPollInterval, opts.PollInterval)
	assert.Equal(t, DefaultOutputTimeout, opts.OutputTimeout)
	assert.NotNil(t, opts.Logger)
}

func TestJSInt(t *testing.T) {
	assert.Equal(t, 3, jsInt(3))
	assert.Equal(t, 2, jsInt(2.0))
	assert.Equal(t, -1, jsInt(nil))
	assert.Equal(t, -1, jsInt("1"))
}
