package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettlementCode(t *testing.T) {
	assert.Equal(t, "AB", SettlementCode("Alpha Base"))
	assert.Equal(t, "SC", SettlementCode("Schiaparelli"))
	assert.Equal(t, "QX", SettlementCode("q"))
	assert.Equal(t, "XX", SettlementCode(""))
}

func TestMissionDesignation(t *testing.T) {
	assert.Equal(t, "T-012-AB-007", MissionDesignation("t", 12, "AB", 7))
	assert.Equal(t, "M-1234-AB-1000", MissionDesignation("M", 1234, "AB", 1000))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
	assert.Equal(t, 42.5, Clamp(42.5, 0, 100))
}
