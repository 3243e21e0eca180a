package definitionsearch

// ProgressReporter receives callbacks while files are searched.
// OnFileSearched may be called from several goroutines at once.
type ProgressReporter interface {
	// OnSearchStart is called once discovery knows how many files will be searched.
	OnSearchStart(totalFiles int)

	// OnFileSearched is called after each file has been indexed or found in cache.
	OnFileSearched(path string)

	// OnSearchComplete is called when the search ends, with or without a result.
	OnSearchComplete(found bool)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnSearchStart(totalFiles int) {}
func (n *NoOpProgressReporter) OnFileSearched(path string)   {}
func (n *NoOpProgressReporter) OnSearchComplete(found bool)  {}
