package loader

//
// Image-loader collaborator. Exec replaces the calling task's address
// space and register state with a fresh image; on success it does not
// return (the task resumes in the new image). Any returned error leaves
// the old image intact.
//

type Loader interface {
	Exec(path string, argv []string, envp []string) error
}
