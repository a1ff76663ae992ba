package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRefresh(_ *RefreshRecord) error    { return nil }
func (n *NoopRecorder) RecordCountdown(_ *CountdownEvent) error { return nil }
func (n *NoopRecorder) RecordPhaseChange(_ *PhaseChange) error  { return nil }
func (n *NoopRecorder) Close() error                            { return nil }
