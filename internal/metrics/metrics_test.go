package metrics

import "testing"

func TestCounterValue(t *testing.T) {
	counter := SelectionSyncTotal.WithLabelValues("test", ResultSuccess)
	before := CounterValue(counter)

	counter.Inc()
	counter.Inc()

	if got := CounterValue(counter); got != before+2 {
		t.Errorf("expected %v, got %v", before+2, got)
	}

	SelectionSize.Set(3)
	if got := CounterValue(SelectionSize); got != 3 {
		t.Errorf("expected gauge value 3, got %v", got)
	}
}
