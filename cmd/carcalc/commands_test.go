package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ThMadHatter/CarCalculator/internal/model"
)

var testDefaults = model.RequestDefaults{
	ZipCode:            "10139-torino",
	NumberOfYears:      10,
	PurchaseYearIndex:  3,
	MonthlyMaintenance: 100,
	RentMonthlyCost:    500,
	BreakEvenYears:     5,
	MaxYears:           10,
}

func TestEstimateFlagsDefaults(t *testing.T) {
	f := estimateFlags{brand: "fiat", model: "panda", purchaseIndex: -1, maintenance: -1}

	req, err := f.request(testDefaults)
	if err != nil {
		t.Fatalf("request() error = %v", err)
	}
	if req.ZipCode != "10139-torino" || req.NumberOfYears != 10 || req.PurchaseYearIndex != 3 || req.MonthlyMaintenance != 100 {
		t.Errorf("defaults not applied: %+v", req)
	}
}

func TestEstimateFlagsOverrides(t *testing.T) {
	f := estimateFlags{
		brand:         "fiat",
		model:         "panda",
		zip:           "20121-milano",
		years:         4,
		purchaseIndex: 0,
		maintenance:   0,
		shiftTypes:    []string{"a", "M"},
	}

	req, err := f.request(testDefaults)
	if err != nil {
		t.Fatalf("request() error = %v", err)
	}
	if req.ZipCode != "20121-milano" || req.NumberOfYears != 4 || req.PurchaseYearIndex != 0 || req.MonthlyMaintenance != 0 {
		t.Errorf("overrides not applied: %+v", req)
	}
	if len(req.ShiftTypes) != 2 {
		t.Errorf("shift types = %v", req.ShiftTypes)
	}
}

func TestEstimateFlagsInvalidShift(t *testing.T) {
	f := estimateFlags{brand: "fiat", model: "panda", purchaseIndex: -1, maintenance: -1, shiftTypes: []string{"X"}}

	if _, err := f.request(testDefaults); err == nil {
		t.Fatal("expected error for invalid shift type")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, model.BrandListResponse{Brands: []string{"Fiat"}}); err != nil {
		t.Fatalf("printJSON() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"brands\"") {
		t.Errorf("output not indented: %q", buf.String())
	}
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"brands", "models", "estimate", "break-even", "analysis"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
