//go:build linux

package runtime

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
)

// 1. /.dockerenv is created by the docker engine, not by every runtime.
// 2. A container has no block devices under /dev/block by default.
// 3. Kubernetes mounts the service account namespace file.

const (
	dockerEnvPath                = "/.dockerenv"                                             // unstable
	dockerBlockPath              = "/dev/block"                                              // stable
	kubernetesServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount/namespace" // stable
	procSelfCgroupPath           = "/proc/self/cgroup"
)

func isRunningAtDocker(envPath, blockPath string) bool {
	if stat, err := os.Stat(envPath); err == nil {
		return !stat.IsDir()
	}
	_, err := os.Stat(blockPath)
	return os.IsNotExist(err)
}

func IsRunningAtDocker() bool {
	return isRunningAtDocker(dockerEnvPath, dockerBlockPath)
}

func isRunningAtKubernetes(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !stat.IsDir() && stat.Size() > 0
}

func IsRunningAtKubernetes() bool {
	return isRunningAtKubernetes(kubernetesServiceAccountPath)
}

const (
	uuidSource      = "[0-9a-f]{8}[-_][0-9a-f]{4}[-_][0-9a-f]{4}[-_][0-9a-f]{4}[-_][0-9a-f]{12}"
	containerSource = "[0-9a-f]{64}"
	taskSource      = "[0-9a-f]{32}-\\d+"
)

var (
	// /proc/self/cgroup line example:
	// 0::/kubepods.slice/kubepods-besteffort.slice/kubepods-besteffort-pode6ac4a8d_1076_453e_9ddb_3976520e3178.slice/cri-containerd-19cd7a809d879d9c855bb93e4d399efe795a769ac856faaa5256cdd8387fe4b1.scope
	procSelfCgroupLineRegex = regexp.MustCompile(`^\d+:[^:]*:(.+)$`)
	containerIDRegex        = regexp.MustCompile(fmt.Sprintf(`(%s|%s|%s)(?:\.scope)?$`, containerSource, taskSource, uuidSource))
)

func parseContainerID(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		path := procSelfCgroupLineRegex.FindStringSubmatch(scanner.Text())
		if len(path) != 2 {
			continue
		}
		if parts := containerIDRegex.FindStringSubmatch(path[1]); len(parts) == 2 {
			return parts[1]
		}
	}
	return ""
}

func LoadContainerID() string {
	f, err := os.Open(procSelfCgroupPath)
	if err != nil {
		return ""
	}
	defer func() {
		_ = f.Close()
	}()
	return parseContainerID(f)
}
