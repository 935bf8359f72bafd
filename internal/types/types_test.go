package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Add_CountsByStatus(t *testing.T) {
	r := &Report{}
	r.Add(Outcome{Item: "a", Status: StatusSuccess})
	r.Add(Outcome{Item: "b", Status: StatusFailed})
	r.Add(Outcome{Item: "c", Status: StatusSkipped})
	r.Add(Outcome{Item: "d", Status: StatusNotFound})

	assert.Equal(t, 1, r.SuccessCount)
	assert.Equal(t, 1, r.FailedCount)
	// NotFound folds into the skipped column.
	assert.Equal(t, 2, r.SkippedCount)
	assert.Len(t, r.Outcomes, 4)
}

func TestReport_Summary_RendersPerLanguage(t *testing.T) {
	r := &Report{}
	r.Add(Outcome{Status: StatusSuccess})
	r.Add(Outcome{Status: StatusFailed})

	assert.Equal(t, "清理完成: 成功 1, 失败 1, 跳过 0", r.Summary(LangChinese))
	assert.Equal(t, "Clean completed: Success 1, Failed 1, Skipped 0", r.Summary(LangEnglish))
	assert.Contains(t, r.Summary(LangBilingual), " / ")
}

func TestFinding_Message_RendersPerLanguage(t *testing.T) {
	f := Finding{MessageZH: "已检测到", MessageEN: "Detected"}

	assert.Equal(t, "已检测到", f.Message(LangChinese))
	assert.Equal(t, "Detected", f.Message(LangEnglish))
	assert.Equal(t, "已检测到 / Detected", f.Message(LangBilingual))
}

func TestOutcome_Message_DefaultsToBilingual(t *testing.T) {
	o := Outcome{MessageZH: "完成", MessageEN: "Done"}
	assert.Equal(t, "完成 / Done", o.Message(Language("")))
}

func TestAllCleanOptions_EnablesEveryCategory(t *testing.T) {
	opts := AllCleanOptions()
	assert.True(t, opts.SystemProxy)
	assert.True(t, opts.EnvVariables)
	assert.True(t, opts.GitProxy)
	assert.True(t, opts.AptProxy)
}
