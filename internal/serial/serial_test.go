package serial

import "testing"

func TestSBRoundTrips(t *testing.T) {
	s := New()
	s.Write(0xFF01, 0x42)
	if got := s.Read(0xFF01); got != 0x42 {
		t.Fatalf("SB = %#02x, want 0x42", got)
	}
}

func TestTransferNeverCompletesOrInterrupts(t *testing.T) {
	s := New()
	s.Write(0xFF01, 0xAA)
	s.Write(0xFF02, 0x81) // request transfer + internal clock
	for i := 0; i < 10000; i++ {
		if s.Tick(1) {
			t.Fatalf("serial stub raised an interrupt, want never")
		}
	}
	if s.Read(0xFF01) != 0xAA {
		t.Fatalf("SB changed without a link partner: %#02x", s.Read(0xFF01))
	}
}
