package cpu

// Stack is the machine stack. It lives in memory, growing up from Base, with
// its pointer held in the SLOT_SP slot.
type Stack struct {
	Memory *Image
	Base   uint32 // Address of the first stack slot.
}

// Pointer returns the address of the next free stack slot.
func (s *Stack) Pointer() uint32 {
	return s.Memory[SLOT_SP]
}

// Depth returns the number of values on the stack.
func (s *Stack) Depth() int {
	return int(s.Pointer()) - int(s.Base)
}

func (s *Stack) Empty() bool {
	return s.Pointer() <= s.Base
}

func (s *Stack) Full() bool {
	return s.Pointer() >= MEMORY_SIZE
}

// Push stores a value at the stack pointer and advances it.
func (s *Stack) Push(value uint32) (ok bool) {
	if s.Full() {
		return
	}

	sp := s.Pointer()
	s.Memory[sp] = value
	s.Memory[SLOT_SP] = sp + 1

	return true
}

// Pop removes the top of the stack, zeroing the vacated slot.
func (s *Stack) Pop() (value uint32, ok bool) {
	value, ok = s.Peek()
	if ok {
		sp := s.Pointer() - 1
		s.Memory[sp] = 0
		s.Memory[SLOT_SP] = sp
	}
	return
}

func (s *Stack) Peek() (value uint32, ok bool) {
	if s.Empty() {
		return
	}

	return s.Memory[s.Pointer()-1], true
}
