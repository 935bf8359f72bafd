package types

import "fmt"

// Status is the terminal state of one attempted mutation.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusNotFound Status = "not_found"
)

// Language selects which rendering of bilingual messages the front ends show.
type Language string

const (
	LangBilingual Language = "bilingual"
	LangChinese   Language = "zh"
	LangEnglish   Language = "en"
)

// Finding is a single detection result for one tool/location.
// Value is empty whenever Found is false.
type Finding struct {
	Item      string
	Found     bool
	Value     string
	MessageZH string
	MessageEN string
}

// Message renders the finding message for the given language mode.
func (f Finding) Message(lang Language) string {
	return pickMessage(lang, f.MessageZH, f.MessageEN)
}

// Outcome is a single mutation result for one tool/location.
type Outcome struct {
	Item      string
	Status    Status
	MessageZH string
	MessageEN string
	Details   string
}

// Message renders the outcome message for the given language mode.
func (o Outcome) Message(lang Language) string {
	return pickMessage(lang, o.MessageZH, o.MessageEN)
}

func pickMessage(lang Language, zh, en string) string {
	switch lang {
	case LangChinese:
		return zh
	case LangEnglish:
		return en
	default:
		return zh + " / " + en
	}
}

// Report aggregates the outcomes of one clean run with running counts.
type Report struct {
	Outcomes     []Outcome
	SuccessCount int
	FailedCount  int
	SkippedCount int
}

// Add appends an outcome and updates the counters. NotFound counts toward
// skipped, matching how the summary has always been presented.
func (r *Report) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusSuccess:
		r.SuccessCount++
	case StatusFailed:
		r.FailedCount++
	default:
		r.SkippedCount++
	}
}

// SummaryZH returns the Chinese run summary.
func (r *Report) SummaryZH() string {
	return sprintSummary("清理完成: 成功 %d, 失败 %d, 跳过 %d", r)
}

// SummaryEN returns the English run summary.
func (r *Report) SummaryEN() string {
	return sprintSummary("Clean completed: Success %d, Failed %d, Skipped %d", r)
}

// Summary renders the run summary for the given language mode.
func (r *Report) Summary(lang Language) string {
	return pickMessage(lang, r.SummaryZH(), r.SummaryEN())
}

func sprintSummary(format string, r *Report) string {
	return fmt.Sprintf(format, r.SuccessCount, r.FailedCount, r.SkippedCount)
}

// SourceEntry is one parsed package-repository declaration from an APT
// sources file. Rewrites always replace whole lines; entries are never
// mutated in place.
type SourceEntry struct {
	IsSourceVariant bool
	BaseURL         string
	Release         string
	Components      []string
}

// CleanOptions carries the user-preference toggles into a clean run. The
// preference file itself is owned by the entrypoint; the core only ever sees
// this value.
type CleanOptions struct {
	SystemProxy  bool
	EnvVariables bool
	GitProxy     bool
	AptProxy     bool
}

// AllCleanOptions enables every category.
func AllCleanOptions() CleanOptions {
	return CleanOptions{
		SystemProxy:  true,
		EnvVariables: true,
		GitProxy:     true,
		AptProxy:     true,
	}
}
