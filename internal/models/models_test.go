package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCodeType(t *testing.T) {
	for input, want := range map[string]CodeType{
		"BNS":    CodeBNS,
		" bnss ": CodeBNSS,
		"bsa":    CodeBSA,
		"ipc":    CodeIPC,
		"CrPC":   CodeCrPC,
		"IEA":    CodeIEA,
	} {
		got, ok := ParseCodeType(input)
		assert.True(t, ok, "input %q", input)
		assert.Equal(t, want, got)
	}

	_, ok := ParseCodeType("USC")
	assert.False(t, ok)
	_, ok = ParseCodeType("")
	assert.False(t, ok)
}

func TestIsCurrent(t *testing.T) {
	assert.True(t, CodeBNS.IsCurrent())
	assert.True(t, CodeBNSS.IsCurrent())
	assert.True(t, CodeBSA.IsCurrent())
	assert.False(t, CodeIPC.IsCurrent())
	assert.False(t, CodeCrPC.IsCurrent())
	assert.False(t, CodeIEA.IsCurrent())
}

func TestCounterpartIsSymmetric(t *testing.T) {
	pairs := map[CodeType]CodeType{
		CodeBNS:  CodeIPC,
		CodeBNSS: CodeCrPC,
		CodeBSA:  CodeIEA,
	}
	for current, superseded := range pairs {
		assert.Equal(t, superseded, current.Counterpart())
		assert.Equal(t, current, superseded.Counterpart())
	}
	assert.Empty(t, CodeType("xyz").Counterpart())
}

func TestFullContentJoinsParagraphs(t *testing.T) {
	sec := LawSection{Content: []string{"first paragraph.", "second paragraph."}}
	assert.Equal(t, "first paragraph. second paragraph.", sec.FullContent())
	assert.Empty(t, LawSection{}.FullContent())
}
