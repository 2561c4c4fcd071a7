//go:build linux

package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseContainerID(t *testing.T) {
	testcases := []struct {
		name     string
		cgroup   string
		expected string
	}{
		{
			name:     "containerd",
			cgroup:   "0::/kubepods.slice/kubepods-besteffort.slice/kubepods-besteffort-pode6ac4a8d_1076_453e_9ddb_3976520e3178.slice/cri-containerd-19cd7a809d879d9c855bb93e4d399efe795a769ac856faaa5256cdd8387fe4b1.scope",
			expected: "19cd7a809d879d9c855bb93e4d399efe795a769ac856faaa5256cdd8387fe4b1",
		},
		{
			name:     "docker",
			cgroup:   "12:memory:/docker/3601745b3bd54d9780436faa5f0e4f72bb46231663bb99a6bb892764917832c2",
			expected: "3601745b3bd54d9780436faa5f0e4f72bb46231663bb99a6bb892764917832c2",
		},
		{
			name:     "ecs task",
			cgroup:   "1:name=systemd:/ecs/34dc0b5e626f2c5c4c5170e34b10e765-1234567890",
			expected: "34dc0b5e626f2c5c4c5170e34b10e765-1234567890",
		},
		{
			name:     "host",
			cgroup:   "0::/user.slice/user-1000.slice/session-2.scope\nbroken line",
			expected: "",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.Equal(tt, tc.expected, parseContainerID(strings.NewReader(tc.cgroup)))
		})
	}
}

func TestIsRunningAtDockerAndKubernetes(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".dockerenv")
	blockPath := filepath.Join(dir, "block")
	require.True(t, isRunningAtDocker(envPath, blockPath))

	require.NoError(t, os.Mkdir(blockPath, 0o700))
	require.False(t, isRunningAtDocker(envPath, blockPath))

	require.NoError(t, os.WriteFile(envPath, nil, 0o600))
	require.True(t, isRunningAtDocker(envPath, blockPath))

	nsPath := filepath.Join(dir, "namespace")
	require.False(t, isRunningAtKubernetes(nsPath))
	require.NoError(t, os.WriteFile(nsPath, []byte("default"), 0o600))
	require.True(t, isRunningAtKubernetes(nsPath))

	env := DetectEnv()
	require.Equal(t, env.Docker || env.Kubernetes || env.ContainerID != "", env.InContainer())
}
