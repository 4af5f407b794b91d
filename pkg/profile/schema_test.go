package profile

import "testing"

func TestLoadPTI(t *testing.T) {
	schema, err := LoadPTI()
	if err != nil {
		t.Fatalf("LoadPTI: %v", err)
	}

	if schema.Header.Namespaces["x"] == "" {
		t.Error("missing namespace declaration")
	}

	for _, number := range []int{2, 10, 18, 20, 22, 23, 34, 43} {
		if schema.ObservationByNumber(number) == nil {
			t.Errorf("observation %d missing", number)
		}
	}

	observation := schema.ObservationByNumber(17)
	if observation == nil || len(observation.Rules) != 3 {
		t.Fatal("observation 17 should carry three short-circuit rules")
	}
	if observation.AppliesTo(ServiceTypeFlexible) {
		t.Error("observation 17 is Standard only")
	}
	if !observation.AppliesTo(ServiceTypeStandard) {
		t.Error("observation 17 should apply to Standard")
	}
}

func TestLoadFares(t *testing.T) {
	schema, err := LoadFares()
	if err != nil {
		t.Fatalf("LoadFares: %v", err)
	}

	if len(schema.Observations) < 5 {
		t.Fatalf("fares schema looks truncated: %d observations", len(schema.Observations))
	}

	// Fares observations carry no service type and apply everywhere
	for _, observation := range schema.Observations {
		if !observation.AppliesTo(ServiceTypeStandard) {
			t.Errorf("observation %q should apply to all service kinds", observation.Details)
		}
	}
}

func TestReferencesFunction(t *testing.T) {
	schema, err := LoadPTI()
	if err != nil {
		t.Fatalf("LoadPTI: %v", err)
	}

	if !schema.ReferencesFunction("check_flexible_service_stop_point_ref") {
		t.Error("PTI schema references the NaPTAN stop predicate")
	}
	if schema.ReferencesFunction("no_such_predicate") {
		t.Error("unexpected function reference")
	}
}
