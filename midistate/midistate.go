// Package midistate tracks the state of an MT-32 style sound module from the
// MIDI stream it receives.
//
// State implements the read-only view the display needs (sounding parts, note
// velocities and master volume) and reports display text sent by SysEx, so a
// status display can follow a module it cannot query directly.
package midistate

import (
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

const (
	// Parts is the number of parts: 8 melodic parts and rhythm.
	Parts = 9
	// Rhythm is the index of the rhythm part.
	Rhythm = Parts - 1
	// DefaultVolume is the master volume after power on.
	DefaultVolume = 100
)

// Roland DT1 SysEx framing.
const (
	rolandID   = 0x41
	modelMT32  = 0x16
	cmdDT1     = 0x12
	ccSoundOff = 120
	ccNotesOff = 123
)

// MT-32 memory addresses handled by State.
var (
	addrMasterVolume = [3]byte{0x10, 0x00, 0x16}
	addrDisplay      = [3]byte{0x20, 0x00, 0x00}
)

// DisplayLength is the length of the MT-32 display.
const DisplayLength = 20

// DefaultChannels maps parts to MIDI channels (0-based) the way an MT-32
// ships: parts 1-8 on channels 2-9, rhythm on channel 10.
var DefaultChannels = [Parts]uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}

// State is the sound module state reconstructed from MIDI messages. It is
// safe for concurrent use: Handle is typically called from a MIDI driver
// goroutine while the display loop reads.
type State struct {
	mu       sync.RWMutex
	channels [Parts]uint8
	notes    [16][128]uint8 // Velocity of held notes, 0 when released
	volume   int

	onDisplay func(text string)
}

// New returns a State using DefaultChannels. onDisplay, if not nil, is called
// with the text of every display SysEx message.
func New(onDisplay func(text string)) *State {
	return &State{
		channels:  DefaultChannels,
		volume:    DefaultVolume,
		onDisplay: onDisplay,
	}
}

// SetPartChannel assigns part to a MIDI channel (0-15).
func (s *State) SetPartChannel(part int, channel uint8) {
	if part < 0 || part >= Parts || channel > 15 {
		return
	}
	s.mu.Lock()
	s.channels[part] = channel
	s.mu.Unlock()
}

// PartStates returns a bit mask with bit i set when part i holds a note.
func (s *State) PartStates() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mask uint32
	for i, ch := range s.channels {
		if maxVelocity(&s.notes[ch]) > 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// Velocity returns the velocity of the loudest note held by part.
func (s *State) Velocity(part int) uint8 {
	if part < 0 || part >= Parts {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maxVelocity(&s.notes[s.channels[part]])
}

// MasterVolume returns the master volume (0-100).
func (s *State) MasterVolume() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

func maxVelocity(notes *[128]uint8) uint8 {
	var v uint8
	for _, n := range notes {
		v = max(v, n)
	}
	return v
}

// Handle applies one MIDI message. Its signature matches the receiver of
// midi.ListenTo.
func (s *State) Handle(msg midi.Message, timestampms int32) {
	var ch, key, vel, cc, val uint8
	var data []byte

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		s.mu.Lock()
		s.notes[ch][key] = vel
		s.mu.Unlock()
	case msg.GetNoteEnd(&ch, &key):
		s.mu.Lock()
		s.notes[ch][key] = 0
		s.mu.Unlock()
	case msg.GetControlChange(&ch, &cc, &val):
		if cc == ccNotesOff || cc == ccSoundOff {
			s.mu.Lock()
			clear(s.notes[ch][:])
			s.mu.Unlock()
		}
	case msg.GetSysEx(&data):
		s.handleSysEx(data)
	}
}

// handleSysEx decodes a Roland DT1 (data set) message addressed to an MT-32:
//
//	41 <device> 16 12 <addr hi> <addr mid> <addr lo> <data...> <checksum>
func (s *State) handleSysEx(data []byte) {
	if len(data) < 9 || data[0] != rolandID || data[2] != modelMT32 || data[3] != cmdDT1 {
		return
	}
	body := data[4 : len(data)-1]
	if !checksumOK(body, data[len(data)-1]) {
		return
	}

	addr := [3]byte{body[0], body[1], body[2]}
	payload := body[3:]

	switch addr {
	case addrMasterVolume:
		s.mu.Lock()
		s.volume = min(int(payload[0]), 100)
		s.mu.Unlock()
	case addrDisplay:
		if s.onDisplay != nil {
			s.onDisplay(displayText(payload))
		}
	}
}

// checksumOK verifies a Roland checksum: address, data and checksum add up
// to a multiple of 128.
func checksumOK(body []byte, sum byte) bool {
	total := int(sum)
	for _, b := range body {
		total += int(b)
	}
	return total&0x7F == 0
}

// Checksum returns the Roland checksum of address and data bytes.
func Checksum(body []byte) byte {
	total := 0
	for _, b := range body {
		total += int(b)
	}
	return byte(-total & 0x7F)
}

func displayText(payload []byte) string {
	if len(payload) > DisplayLength {
		payload = payload[:DisplayLength]
	}
	text := make([]byte, len(payload))
	for i, b := range payload {
		if b < ' ' || b > '~' {
			b = ' '
		}
		text[i] = b
	}
	return string(text)
}

// DisplaySysEx builds the SysEx message an application sends to show text
// on an MT-32 display.
func DisplaySysEx(text string) midi.Message {
	if len(text) > DisplayLength {
		text = text[:DisplayLength]
	}
	return dataSet(addrDisplay, []byte(text))
}

// MasterVolumeSysEx builds the SysEx message setting the master volume.
func MasterVolumeSysEx(volume uint8) midi.Message {
	return dataSet(addrMasterVolume, []byte{volume & 0x7F})
}

func dataSet(addr [3]byte, payload []byte) midi.Message {
	body := append(addr[:], payload...)
	msg := []byte{rolandID, 0x10, modelMT32, cmdDT1}
	msg = append(msg, body...)
	msg = append(msg, Checksum(body))
	return midi.SysEx(msg)
}
