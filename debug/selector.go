package debug

type Tselector string

// ALWAYS
const (
	ALWAYS Tselector = "ALWAYS"
	ERROR            = "ERROR"
	NEVER            = "NEVER"
)

// ERR
const (
	ERR Tselector = "_ERR"
)

// Task lifecycle
const (
	CLONE     Tselector = "CLONE"
	CLONE_ERR           = CLONE + ERR
	EXIT                = "EXIT"
	EXIT_ERR            = EXIT + ERR
	WAIT                = "WAIT"
	WAIT_ERR            = WAIT + ERR
	EXEC                = "EXEC"
	EXEC_ERR            = EXEC + ERR
	TID                 = "TID"
)

// Collaborator bridges
const (
	ARCH       Tselector = "ARCH"
	ARCH_ERR             = ARCH + ERR
	RLIMIT               = "RLIMIT"
	RLIMIT_ERR           = RLIMIT + ERR
	FDT                  = "FDT"
	FDT_ERR              = FDT + ERR
	MEM                  = "MEM"
	MEM_ERR              = MEM + ERR
	SCHED                = "SCHED"
	FUTEX                = "FUTEX"
)

// Tests
const (
	TEST Tselector = "TEST"
)
