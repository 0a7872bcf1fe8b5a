package chip8

// dispatch decodes an instruction word and executes it. The word is
// split into four nibbles; the high nibble selects the opcode group,
// groups 0x0, 0x8, 0xE and 0xF dispatch further on the remaining
// nibbles. Any pattern matching no instruction is an ErrOpcode fault.
func (cpu *Cpu) dispatch(w uint16) error {
	x := uint8(w>>8) & 0xF
	y := uint8(w>>4) & 0xF
	n := uint8(w) & 0xF
	nn := uint8(w)
	nnn := w & 0x0FFF

	switch w >> 12 {
	case 0x0:
		switch w {
		case 0x0000:
			// No-op.
		case 0x00E0:
			cpu.Screen.Clear()
		case 0x00EE:
			return cpu.ret()
		default:
			return ErrOpcode(w)
		}
	case 0x1:
		cpu.PC = nnn
	case 0x2:
		return cpu.call(nnn)
	case 0x3:
		cpu.skipIf(cpu.V[x] == nn)
	case 0x4:
		cpu.skipIf(cpu.V[x] != nn)
	case 0x5:
		if n != 0 {
			return ErrOpcode(w)
		}
		cpu.skipIf(cpu.V[x] == cpu.V[y])
	case 0x6:
		cpu.V[x] = nn
	case 0x7:
		// Wraparound add, no flag write.
		cpu.V[x] += nn
	case 0x8:
		return cpu.alu(w, x, y)
	case 0x9:
		if n != 0 {
			return ErrOpcode(w)
		}
		cpu.skipIf(cpu.V[x] != cpu.V[y])
	case 0xA:
		cpu.I = nnn
	case 0xB:
		cpu.PC = nnn + uint16(cpu.V[0])
	case 0xC:
		cpu.V[x] = cpu.Rand() & nn
	case 0xD:
		return cpu.draw(x, y, n)
	case 0xE:
		switch nn {
		case 0x9E:
			cpu.skipIf(cpu.Key(cpu.V[x]))
		case 0xA1:
			cpu.skipIf(!cpu.Key(cpu.V[x]))
		default:
			return ErrOpcode(w)
		}
	case 0xF:
		return cpu.misc(w, x, nn)
	}

	return nil
}

// skipIf advances the program counter over the next instruction when
// the condition holds.
func (cpu *Cpu) skipIf(cond bool) {
	if cond {
		cpu.PC += 2
	}
}

// call pushes the current (already advanced) program counter and
// jumps to addr. Exceeding the stack capacity is fatal.
func (cpu *Cpu) call(addr uint16) error {
	if cpu.Stack.Full() {
		return ErrStackOverflow
	}
	cpu.Stack.Push(cpu.PC)
	cpu.PC = addr

	return nil
}

// ret pops a return address into the program counter. Returning with
// an empty stack is fatal.
func (cpu *Cpu) ret() error {
	addr, ok := cpu.Stack.Pop()
	if !ok {
		return ErrStackUnderflow
	}
	cpu.PC = addr

	return nil
}

// alu executes the 0x8 group: register combination, arithmetic with
// carry/borrow reported in VF, and shifts. The flag write happens
// after the result write, so VF as a destination ends up holding the
// flag.
func (cpu *Cpu) alu(w uint16, x, y uint8) error {
	switch uint8(w) & 0xF {
	case 0x0:
		cpu.V[x] = cpu.V[y]
	case 0x1:
		cpu.V[x] |= cpu.V[y]
	case 0x2:
		cpu.V[x] &= cpu.V[y]
	case 0x3:
		cpu.V[x] ^= cpu.V[y]
	case 0x4:
		// Add with carry: VF is 1 iff the unsigned sum overflowed.
		sum := uint16(cpu.V[x]) + uint16(cpu.V[y])
		cpu.V[x] = uint8(sum)
		cpu.V[0xF] = uint8(sum >> 8)
	case 0x5:
		// Subtract with borrow: VF is 0 iff a borrow occurred.
		vx, vy := cpu.V[x], cpu.V[y]
		cpu.V[x] = vx - vy
		cpu.V[0xF] = boolFlag(vx >= vy)
	case 0x6:
		// Shift right: VX receives VY>>1, VF the bit shifted out.
		// VY itself is unmodified.
		vy := cpu.V[y]
		cpu.V[x] = vy >> 1
		cpu.V[0xF] = vy & 1
	case 0x7:
		// Reverse subtract: VX receives VY-VX, same borrow flag.
		vx, vy := cpu.V[x], cpu.V[y]
		cpu.V[x] = vy - vx
		cpu.V[0xF] = boolFlag(vy >= vx)
	case 0xE:
		vy := cpu.V[y]
		cpu.V[x] = vy << 1
		cpu.V[0xF] = vy >> 7
	default:
		return ErrOpcode(w)
	}

	return nil
}

// draw reads an n byte sprite at the index register and XORs it into
// the framebuffer at (VX, VY). VF receives the collision flag.
func (cpu *Cpu) draw(x, y, n uint8) error {
	sprite, err := cpu.ramWindow(cpu.I, int(n))
	if err != nil {
		return err
	}
	collision := cpu.Screen.DrawSprite(sprite, int(cpu.V[x]), int(cpu.V[y]))
	cpu.V[0xF] = boolFlag(collision)

	return nil
}

// misc executes the 0xF group: timers, index register arithmetic,
// glyph addressing, BCD and register transfer to/from memory.
func (cpu *Cpu) misc(w uint16, x uint8, nn uint8) error {
	switch nn {
	case 0x07:
		cpu.V[x] = cpu.DelayTimer
	case 0x08, 0x0A:
		// Key wait; 0x0A is the conventional encoding.
		cpu.waitKey(x)
	case 0x15:
		cpu.DelayTimer = cpu.V[x]
	case 0x18:
		cpu.SoundTimer = cpu.V[x]
	case 0x1E:
		// 16-bit index add, no overflow flag.
		cpu.I += uint16(cpu.V[x])
	case 0x29:
		cpu.I = uint16(cpu.V[x]&0xF) * FONT_SPRITE_SIZE
	case 0x33:
		return cpu.storeBCD(x)
	case 0x55:
		return cpu.dumpRegisters(x)
	case 0x65:
		return cpu.loadRegisters(x)
	default:
		return ErrOpcode(w)
	}

	return nil
}

// waitKey stores the lowest pressed keypad index in VX. While no key
// is down it rewinds the program counter so the same instruction
// re-executes on the next tick; frames, timers and rendering keep
// running in the meantime.
func (cpu *Cpu) waitKey(x uint8) {
	for k := range cpu.keys {
		if cpu.keys[k] {
			cpu.V[x] = uint8(k)
			return
		}
	}
	cpu.PC -= 2
}

// storeBCD decomposes VX into hundreds, tens and ones digits stored
// at I, I+1, I+2.
func (cpu *Cpu) storeBCD(x uint8) error {
	buf, err := cpu.ramWindow(cpu.I, 3)
	if err != nil {
		return err
	}
	vx := cpu.V[x]
	buf[0] = vx / 100
	buf[1] = (vx / 10) % 10
	buf[2] = vx % 10

	return nil
}

// dumpRegisters stores V0..=VX at I onward, then advances I by X+1.
func (cpu *Cpu) dumpRegisters(x uint8) error {
	buf, err := cpu.ramWindow(cpu.I, int(x)+1)
	if err != nil {
		return err
	}
	copy(buf, cpu.V[:int(x)+1])
	cpu.I += uint16(x) + 1

	return nil
}

// loadRegisters fills V0..=VX from I onward, then advances I by X+1.
func (cpu *Cpu) loadRegisters(x uint8) error {
	buf, err := cpu.ramWindow(cpu.I, int(x)+1)
	if err != nil {
		return err
	}
	copy(cpu.V[:int(x)+1], buf)
	cpu.I += uint16(x) + 1

	return nil
}

func boolFlag(b bool) uint8 {
	if b {
		return 1
	}

	return 0
}
