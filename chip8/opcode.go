package chip8

import (
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Mnemonic returns the assembler name of the instruction encoded by
// the given word, or "???" when the word matches no instruction.
// Used for trace logging and opcode error messages.
func Mnemonic(w uint16) string {
	for _, op := range chip8.Opcodes[int(w>>12)] {
		if op.Instruction != nil && w&op.Info.Mask == op.Info.Value {
			return op.Instruction.Name
		}
	}

	return "???"
}
