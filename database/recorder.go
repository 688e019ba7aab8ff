package database

// Recorder принимает записи журнала аудита от pipeline
type Recorder interface {
	StartRun(inputPath string) (string, error)
	Record(runID, stage, action string, detail any) error
	FinishRun(runID string, outcome RunOutcome) error
}

// NopRecorder журнал, который ничего не сохраняет (аудит отключен)
type NopRecorder struct{}

func (NopRecorder) StartRun(string) (string, error) { return "", nil }
func (NopRecorder) Record(string, string, string, any) error { return nil }
func (NopRecorder) FinishRun(string, RunOutcome) error { return nil }

var (
	_ Recorder = (*AuditDB)(nil)
	_ Recorder = NopRecorder{}
)
