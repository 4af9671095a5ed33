package abi

import (
	"log"
	"strings"

	"gopkg.in/yaml.v3"
)

var Target = "default"

// Default params
var defaults = `
task:
  max_tasks: 32768
  fd_limit: 1024
  stack_limit: 8388608

mem:
  page_size: 4096
  max_str_len: 4096
  max_vec_len: 256
  tlb_size: 1024
`

// Params for stress/bench targets: more tasks, bigger marshaling caps.
var large = `
task:
  max_tasks: 1048576
  fd_limit: 65536
  stack_limit: 67108864

mem:
  page_size: 4096
  max_str_len: 131072
  max_vec_len: 4096
  tlb_size: 8192
`

type Config struct {
	Task struct {
		// Scheduler refuses to allocate task ids beyond this.
		MAX_TASKS int `yaml:"max_tasks"`
		// Default per-task fd limit (lowest descriptor value that is rejected).
		FD_LIMIT int `yaml:"fd_limit"`
		// Default RLIMIT_STACK soft/hard value.
		STACK_LIMIT uint64 `yaml:"stack_limit"`
	} `yaml:"task"`
	Mem struct {
		PAGE_SIZE uint64 `yaml:"page_size"`
		// Cap on C-string length copied in from user memory.
		MAX_STR_LEN int `yaml:"max_str_len"`
		// Cap on argv/envp vector length copied in from user memory.
		MAX_VEC_LEN int `yaml:"max_vec_len"`
		// Entries in the user-memory translation cache.
		TLB_SIZE int `yaml:"tlb_size"`
	} `yaml:"mem"`
}

var Conf *Config

func init() {
	switch Target {
	case "default":
		Conf = ReadConfig(defaults)
	case "large":
		Conf = ReadConfig(large)
	default:
		log.Fatalf("Built for unknown target %s", Target)
	}
}

func ReadConfig(params string) *Config {
	config := &Config{}
	d := yaml.NewDecoder(strings.NewReader(params))
	if err := d.Decode(&config); err != nil {
		log.Fatalf("Yaml decode %v err %v\n", params, err)
	}

	return config
}
