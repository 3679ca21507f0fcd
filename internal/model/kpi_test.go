package model

import "testing"

func TestKPIReportAddReplacesByKey(t *testing.T) {
	var r KPIReport
	r.Add(KPI{Key: "spend", Display: "R$ 10,00", Raw: 10})
	r.Add(KPI{Key: "roas", Display: "1.50x", Raw: 1.5})
	r.Add(KPI{Key: "spend", Display: "R$ 20,00", Raw: 20})

	if len(r.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(r.Items))
	}
	if r.Items[0].Key != "spend" {
		t.Errorf("Items[0].Key = %q, want spend (insertion order kept)", r.Items[0].Key)
	}
	if got := r.Raw("spend"); got != 20 {
		t.Errorf("Raw(spend) = %v, want 20", got)
	}
	if got := r.Display("missing"); got != "" {
		t.Errorf("Display(missing) = %q, want empty", got)
	}
}
