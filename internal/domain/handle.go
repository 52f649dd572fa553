package domain

// ValidatorHandle is a resolved validator command: the executable plus any
// fixed leading arguments. It is recomputed for every invocation.
type ValidatorHandle struct {
	Path     string   `json:"path"`
	Args     []string `json:"args"`
	Override bool     `json:"override"`
}

// CommandLine returns the full argv (without the executable) for req.
func (h ValidatorHandle) CommandLine(req ValidationRequest) []string {
	args := make([]string, 0, len(h.Args)+5)
	args = append(args, h.Args...)
	args = append(args, req.Args()...)
	return args
}
