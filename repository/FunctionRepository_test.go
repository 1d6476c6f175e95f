package repository

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateQuoteCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^QT-[A-Z]{2}\d{5}$`)
	for i := 0; i < 20; i++ {
		code := GenerateQuoteCode()
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateOrderReference(t *testing.T) {
	assert.Equal(t, "LABEL/MBX/0042", GenerateOrderReference("label", "MBX", 42))
	assert.Equal(t, "BANNER/MBX/1234", GenerateOrderReference("Banner", "MBX", 1234))
	assert.Equal(t, "STICKER/MBX/0001", GenerateOrderReference("STICKER", "MBX", 1))
}

func TestNextRevisionCode(t *testing.T) {
	assert.Equal(t, "RV-01", NextRevisionCode(""))
	assert.Equal(t, "RV-02", NextRevisionCode("RV-01"))
	assert.Equal(t, "RV-10", NextRevisionCode("RV-09"))
	assert.Equal(t, "RV-100", NextRevisionCode("RV-99"))
	assert.Equal(t, "RV-01", NextRevisionCode("garbage"))
}
