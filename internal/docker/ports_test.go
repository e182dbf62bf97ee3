package docker

import (
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePortSpecs(t *testing.T) {
	tests := []struct {
		name    string
		specs   []string
		want    []PortMapping
		wantErr bool
	}{
		{
			name:  "simple mapping defaults to tcp",
			specs: []string{"8080:8080"},
			want:  []PortMapping{{HostPort: "8080", ContainerPort: "8080", Protocol: "tcp"}},
		},
		{
			name:  "explicit protocol",
			specs: []string{"9000:8080/udp"},
			want:  []PortMapping{{HostPort: "9000", ContainerPort: "8080", Protocol: "udp"}},
		},
		{
			name:  "multiple specs",
			specs: []string{"8080:8080", "9090:9090"},
			want: []PortMapping{
				{HostPort: "8080", ContainerPort: "8080", Protocol: "tcp"},
				{HostPort: "9090", ContainerPort: "9090", Protocol: "tcp"},
			},
		},
		{
			name:    "missing container port",
			specs:   []string{"8080"},
			wantErr: true,
		},
		{
			name:    "non-numeric host port",
			specs:   []string{"http:8080"},
			wantErr: true,
		},
		{
			name:    "non-numeric container port",
			specs:   []string{"8080:api"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePortSpecs(tt.specs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNatConfig(t *testing.T) {
	mappings := []PortMapping{
		{HostPort: "8080", ContainerPort: "8080", Protocol: "tcp"},
	}

	exposed, bindings, err := natConfig(mappings)
	require.NoError(t, err)

	port := nat.Port("8080/tcp")
	_, ok := exposed[port]
	assert.True(t, ok)

	require.Len(t, bindings[port], 1)
	assert.Equal(t, "0.0.0.0", bindings[port][0].HostIP)
	assert.Equal(t, "8080", bindings[port][0].HostPort)
}
