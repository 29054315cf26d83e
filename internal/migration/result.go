package migration

// Stats counts the entities created during one migration run. Resolving an
// already-known doctor or diagnosis does not count; only fresh rows do.
type Stats struct {
	Doctors      int `json:"doctors"`
	Diagnoses    int `json:"diagnoses"`
	Patients     int `json:"patients"`
	Appointments int `json:"appointments"`
	Tests        int `json:"tests"`
}

// Result is the outcome of one migration run. It is never persisted; the
// caller inspects Success and decides what to show the user. A non-empty
// Errors list with Success=true means individual legacy records were skipped
// while the run as a whole went through.
type Result struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	BackupPath string   `json:"backupPath,omitempty"`
	Stats      Stats    `json:"stats"`
	Errors     []string `json:"errors"`
}

func newResult() *Result {
	return &Result{Errors: []string{}}
}

func (r *Result) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *Result) fail(msg string) *Result {
	r.Success = false
	r.Message = msg
	r.addError(msg)
	return r
}

// totalStages is fixed: settings, patients, appointments, tests, finalize.
const totalStages = 5

// Progress is one coarse-grained progress notification. Percent advances in
// stage-sized steps; there is no per-record granularity.
type Progress struct {
	Step    string
	Stage   int
	Total   int
	Percent int
}

// ProgressFunc receives progress notifications. Calls are fire-and-forget:
// the engine never waits on the observer.
type ProgressFunc func(Progress)
