package midistate

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

func TestNoteOnOff(t *testing.T) {
	s := New(nil)
	s.Handle(midi.NoteOn(1, 60, 90), 0) // part 1 on channel 2
	s.Handle(midi.NoteOn(1, 64, 110), 0)
	s.Handle(midi.NoteOn(9, 36, 127), 0) // rhythm

	if got, want := s.PartStates(), uint32(1|1<<Rhythm); got != want {
		t.Errorf("PartStates() = %09b, want %09b", got, want)
	}
	if got := s.Velocity(0); got != 110 {
		t.Errorf("Velocity(0) = %d, want 110 (loudest held note)", got)
	}

	s.Handle(midi.NoteOff(1, 64), 0)
	if got := s.Velocity(0); got != 90 {
		t.Errorf("Velocity(0) after release = %d, want 90", got)
	}

	// Note on with zero velocity releases too.
	s.Handle(midi.NoteOn(1, 60, 0), 0)
	if got, want := s.PartStates(), uint32(1<<Rhythm); got != want {
		t.Errorf("PartStates() = %09b, want %09b", got, want)
	}
}

func TestUnmappedChannelIgnored(t *testing.T) {
	s := New(nil)
	s.Handle(midi.NoteOn(0, 60, 100), 0) // channel 1 has no part by default
	s.Handle(midi.NoteOn(15, 60, 100), 0)
	if got := s.PartStates(); got != 0 {
		t.Errorf("PartStates() = %09b, want 0", got)
	}
}

func TestSetPartChannel(t *testing.T) {
	s := New(nil)
	s.SetPartChannel(0, 0)
	s.SetPartChannel(3, 16) // ignored
	s.Handle(midi.NoteOn(0, 60, 100), 0)
	if got := s.PartStates(); got != 1 {
		t.Errorf("PartStates() = %09b, want 1", got)
	}
	if got := s.Velocity(Parts); got != 0 {
		t.Errorf("Velocity(out of range) = %d, want 0", got)
	}
}

func TestAllNotesOff(t *testing.T) {
	tests := []struct {
		name string
		cc   uint8
	}{
		{"all notes off", 123},
		{"all sound off", 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			s.Handle(midi.NoteOn(2, 60, 100), 0)
			s.Handle(midi.NoteOn(2, 67, 100), 0)
			s.Handle(midi.ControlChange(2, tt.cc, 0), 0)
			if got := s.PartStates(); got != 0 {
				t.Errorf("PartStates() = %09b, want 0", got)
			}
		})
	}
}

func TestMasterVolumeSysEx(t *testing.T) {
	s := New(nil)
	if got := s.MasterVolume(); got != DefaultVolume {
		t.Fatalf("MasterVolume() = %d, want %d", got, DefaultVolume)
	}
	s.Handle(MasterVolumeSysEx(75), 0)
	if got := s.MasterVolume(); got != 75 {
		t.Errorf("MasterVolume() = %d, want 75", got)
	}
	s.Handle(MasterVolumeSysEx(127), 0)
	if got := s.MasterVolume(); got != 100 {
		t.Errorf("MasterVolume() = %d, want clamped to 100", got)
	}
}

func TestDisplaySysEx(t *testing.T) {
	var got []string
	s := New(func(text string) { got = append(got, text) })

	s.Handle(DisplaySysEx("Loading..."), 0)
	s.Handle(DisplaySysEx("A message that is longer than the display"), 0)

	want := []string{"Loading...", "A message that is lo"}
	if len(got) != len(want) {
		t.Fatalf("got %d display messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSysExRejected(t *testing.T) {
	called := false
	s := New(func(string) { called = true })

	bad := []byte(DisplaySysEx("hi"))
	bad[len(bad)-2]++ // corrupt the checksum
	s.Handle(midi.Message(bad), 0)

	s.Handle(midi.SysEx([]byte{0x43, 0x10, 0x4C, 0x00, 0x00, 0x7E, 0x00}), 0) // not Roland
	s.Handle(midi.SysEx([]byte{0x41, 0x10}), 0)                               // truncated

	if called {
		t.Error("display callback called for a rejected message")
	}
	if s.MasterVolume() != DefaultVolume {
		t.Error("master volume changed by a rejected message")
	}
}

func TestChecksum(t *testing.T) {
	// Master volume 100 example from the MT-32 manual.
	body := []byte{0x10, 0x00, 0x16, 0x64}
	if got := Checksum(body); got != 0x76 {
		t.Errorf("Checksum() = %#02x, want 0x76", got)
	}
	if !checksumOK(body, 0x76) {
		t.Error("checksumOK rejected a valid checksum")
	}
}

func TestDisplayTextFiltersControlBytes(t *testing.T) {
	if got := displayText([]byte{'a', 0x01, 'b', 0x7F}); got != "a b " {
		t.Errorf("displayText() = %q, want %q", got, "a b ")
	}
}
