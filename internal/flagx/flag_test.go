package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	clientFlags := []string{"-a", "-d", "-l", "-u"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{"client flags kept, config flags dropped",
			[]string{"-c", "shelf.json", "-a", "127.0.0.1:50051", "-l", "/srv/library"}, clientFlags,
			[]string{"-a", "127.0.0.1:50051", "-l", "/srv/library"}},
		{"equals form", []string{"-config=shelf.json", "-u=10"}, []string{"-u"}, []string{"-u=10"}},
		{"dash-prefixed token is not a value", []string{"-d", "-a", "host:1"}, clientFlags, []string{"-d", "-a", "host:1"}},
		{"trailing flag without value", []string{"-l"}, clientFlags, []string{"-l"}},
		{"positional arguments ignored", []string{"add", "moby.pdf", "-u", "5"}, clientFlags, []string{"-u", "5"}},
		{"repeated flag keeps order", []string{"-d", "a.db", "-d", "b.db"}, clientFlags, []string{"-d", "a.db", "-d", "b.db"}},
		{"empty args", []string{}, clientFlags, []string{}},
		{"nothing allowed", []string{"-a", "x"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func Test_jsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})

	t.Run("equals form", func(t *testing.T) {
		os.Args = []string{"testbin", "-config=/path/eq.json", "-a", "host:1"}
		assert.Equal(t, "/path/eq.json", JsonConfigFlags())
	})
}

func Test_envFileFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "conf.json", "-env", "/path/.env"}
	assert.Equal(t, "/path/.env", EnvFileFlags())

	os.Args = []string{"testbin", "-c", "conf.json"}
	assert.Empty(t, EnvFileFlags())
}
