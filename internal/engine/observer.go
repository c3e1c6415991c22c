package engine

// Observer receives structured progress events from the engine. All
// methods are called from the engine's single goroutine, in pipeline
// order.
type Observer interface {
	AnalyzeStarted(total int)
	AnalyzeCompleted(a *Analysis)
	ExecuteStarted(count int)
	PackageStarted(c *Change)
	PackageSkipped(c *Change)
	PackageCompleted(o *Outcome)
	RunCompleted(s *Summary)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) AnalyzeStarted(int)         {}
func (NopObserver) AnalyzeCompleted(*Analysis) {}
func (NopObserver) ExecuteStarted(int)         {}
func (NopObserver) PackageStarted(*Change)     {}
func (NopObserver) PackageSkipped(*Change)     {}
func (NopObserver) PackageCompleted(*Outcome)  {}
func (NopObserver) RunCompleted(*Summary)      {}
