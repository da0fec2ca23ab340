package voice

import (
	"testing"
	"time"
)

// testService returns a Service with a short delay so tests stay fast.
func testService(speaker Speaker) *Service {
	s := NewService(speaker)
	s.delay = 10 * time.Millisecond
	return s
}

func TestService_SpeaksAfterDelay(t *testing.T) {
	mock := NewMockSpeaker()
	s := testService(mock)
	defer s.Close()

	s.Cue("tap the crown of your head")

	if !mock.WaitFor(1, time.Second) {
		t.Fatal("cue was never spoken")
	}
	if got := mock.Spoken()[0]; got != "tap the crown of your head" {
		t.Errorf("unexpected utterance %q", got)
	}
}

func TestService_NewCueCancelsPending(t *testing.T) {
	mock := NewMockSpeaker()
	s := testService(mock)
	defer s.Close()

	// The first cue is still inside its delay when the second arrives;
	// only the second may ever play.
	s.Cue("first")
	s.Cue("second")

	if !mock.WaitFor(1, time.Second) {
		t.Fatal("no cue was spoken")
	}
	time.Sleep(50 * time.Millisecond)

	spoken := mock.Spoken()
	if len(spoken) != 1 || spoken[0] != "second" {
		t.Errorf("expected only %q to play, got %v", "second", spoken)
	}
}

func TestService_StopCancels(t *testing.T) {
	mock := NewMockSpeaker()
	s := testService(mock)
	defer s.Close()

	s.Cue("never heard")
	s.Stop()

	time.Sleep(50 * time.Millisecond)
	if len(mock.Spoken()) != 0 {
		t.Errorf("expected no utterances after Stop, got %v", mock.Spoken())
	}
}

func TestService_DisabledAndEmpty(t *testing.T) {
	mock := NewMockSpeaker()
	s := testService(mock)
	defer s.Close()

	s.SetEnabled(false)
	s.Cue("silence")
	time.Sleep(50 * time.Millisecond)
	if len(mock.Spoken()) != 0 {
		t.Error("disabled service must not speak")
	}

	s.SetEnabled(true)
	s.Cue("   ")
	time.Sleep(50 * time.Millisecond)
	if len(mock.Spoken()) != 0 {
		t.Error("blank cue must not speak")
	}
}

func TestService_NilSpeaker(t *testing.T) {
	s := NewService(nil)
	defer s.Close()

	// Must be safe no-ops.
	s.Cue("anything")
	s.Stop()
	s.SetEnabled(true)
	s.Cue("still nothing")
}
