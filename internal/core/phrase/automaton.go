package phrase

// automaton is a byte-level Aho-Corasick matcher compiled to a full DFA:
// after build every state has a transition for every byte, so scanning
// never walks failure links

const noState = -1

type node struct {
	next   [256]int32
	fail   int32
	output []int // phrase ids ending here, including those inherited via fail
}

type automaton struct {
	nodes []node
}

func newNode() node {
	var n node
	for i := range n.next {
		n.next[i] = noState
	}
	return n
}

func newAutomaton() *automaton {
	return &automaton{nodes: []node{newNode()}}
}

// add inserts pat under id; empty patterns are ignored
func (a *automaton) add(pat string, id int) {
	if pat == "" {
		return
	}
	s := int32(0)
	for i := 0; i < len(pat); i++ {
		b := pat[i]
		nxt := a.nodes[s].next[b]
		if nxt == noState {
			nxt = int32(len(a.nodes))
			a.nodes[s].next[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		s = nxt
	}
	a.nodes[s].output = append(a.nodes[s].output, id)
}

// build computes failure links breadth first and fills the missing transitions
func (a *automaton) build() {
	queue := make([]int32, 0, len(a.nodes))
	root := &a.nodes[0]
	for b := 0; b < 256; b++ {
		if s := root.next[b]; s == noState {
			root.next[b] = 0
		} else {
			a.nodes[s].fail = 0
			queue = append(queue, s)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		r := queue[qi]
		for b := 0; b < 256; b++ {
			s := a.nodes[r].next[b]
			f := a.nodes[a.nodes[r].fail].next[b]
			if s == noState {
				a.nodes[r].next[b] = f
				continue
			}
			a.nodes[s].fail = f
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[f].output...)
			queue = append(queue, s)
		}
	}
}

// scan calls fn for each (end offset, id) match; returning false stops the scan
func (a *automaton) scan(text string, fn func(end, id int) bool) {
	s := int32(0)
	for i := 0; i < len(text); i++ {
		s = a.nodes[s].next[text[i]]
		for _, id := range a.nodes[s].output {
			if !fn(i+1, id) {
				return
			}
		}
	}
}
