package protocol

import (
	"bytes"
	"strconv"
)

// fragPrefix starts every fragment datagram, followed by "<index>/<total>:".
const fragPrefix = "FRAG:"

// fragHeaderMargin is reserved out of each chunk for the fragment header.
const fragHeaderMargin = 20

// Codec splits oversized replies into fragment datagrams.
// A reply of at most MaxPayload bytes is returned as a single unframed datagram.
type Codec struct {
	MaxPayload int
}

// Split breaks data into wire-ready datagrams. Fragment indices are 1-based
// and concatenating the payload slices in index order reconstructs data exactly.
func (c Codec) Split(data []byte) [][]byte {
	if len(data) <= c.MaxPayload {
		return [][]byte{data}
	}
	chunkSize := c.MaxPayload - fragHeaderMargin
	total := (len(data) + chunkSize - 1) / chunkSize
	datagrams := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		offset := i * chunkSize
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		header := fragPrefix + strconv.Itoa(i+1) + "/" + strconv.Itoa(total) + ":"
		datagram := make([]byte, 0, len(header)+end-offset)
		datagram = append(datagram, header...)
		datagram = append(datagram, data[offset:end]...)
		datagrams = append(datagrams, datagram)
	}
	return datagrams
}

// IsFragment reports whether a datagram carries the fragment prefix.
func IsFragment(datagram []byte) bool {
	return bytes.HasPrefix(datagram, []byte(fragPrefix))
}

// ParseFragment splits a fragment datagram into its index, total count and payload.
func ParseFragment(datagram []byte) (index, total int, payload []byte, ok bool) {
	if !IsFragment(datagram) {
		return 0, 0, nil, false
	}
	rest := datagram[len(fragPrefix):]
	colon := bytes.IndexByte(rest, ':')
	if colon == -1 {
		return 0, 0, nil, false
	}
	slash := bytes.IndexByte(rest[:colon], '/')
	if slash == -1 {
		return 0, 0, nil, false
	}
	index, err := strconv.Atoi(string(rest[:slash]))
	if err != nil {
		return 0, 0, nil, false
	}
	total, err = strconv.Atoi(string(rest[slash+1 : colon]))
	if err != nil {
		return 0, 0, nil, false
	}
	if index < 1 || total < 1 || index > total {
		return 0, 0, nil, false
	}
	return index, total, rest[colon+1:], true
}

// Reassembler collects the fragments of one reply as they arrive, in any order.
type Reassembler struct {
	total     int
	fragments map[int][]byte
}

// NewReassembler starts reassembly from the first fragment datagram of a reply.
// It returns false when the datagram is not a well-formed fragment.
func NewReassembler(first []byte) (*Reassembler, bool) {
	index, total, payload, ok := ParseFragment(first)
	if !ok {
		return nil, false
	}
	r := &Reassembler{
		total:     total,
		fragments: map[int][]byte{index: payload},
	}
	return r, true
}

// Add stores one more fragment. Non-fragment or malformed datagrams are
// ignored and reported with false. Duplicates overwrite harmlessly.
func (r *Reassembler) Add(datagram []byte) bool {
	index, _, payload, ok := ParseFragment(datagram)
	if !ok {
		return false
	}
	r.fragments[index] = payload
	return true
}

// Complete reports whether every index from 1 to the total has arrived.
func (r *Reassembler) Complete() bool {
	return len(r.fragments) >= r.total
}

// Received returns how many distinct fragments have arrived.
func (r *Reassembler) Received() int {
	return len(r.fragments)
}

// Total returns the fragment count announced in the header.
func (r *Reassembler) Total() int {
	return r.total
}

// Assemble concatenates the received payloads in index order. Missing indices
// are skipped, so a timed-out reassembly yields the best-effort partial reply.
func (r *Reassembler) Assemble() []byte {
	var buf bytes.Buffer
	for i := 1; i <= r.total; i++ {
		if payload, ok := r.fragments[i]; ok {
			buf.Write(payload)
		}
	}
	return buf.Bytes()
}
