package runtime

// Env describes where the process runs. Cgroup CPU quotas only apply inside
// containers, so it is logged next to the GOMAXPROCS adjustment.
type Env struct {
	Docker      bool
	Kubernetes  bool
	ContainerID string
}

func (env Env) InContainer() bool {
	return env.Docker || env.Kubernetes || env.ContainerID != ""
}

func DetectEnv() Env {
	return Env{
		Docker:      IsRunningAtDocker(),
		Kubernetes:  IsRunningAtKubernetes(),
		ContainerID: LoadContainerID(),
	}
}
