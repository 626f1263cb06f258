package internal

// execute dispatches a decoded instruction. The returned error is one of the
// fault kinds; step wraps it with the opcode and address.
func (vm *C8VM) execute(op Opcode) error {
	switch op.Family() {
	case 0x0:
		switch op {
		case 0x00E0: // CLS
			vm.clearScreen()
		case 0x00EE: // RET
			return vm.returnFromSubroutine()
		default: // SYS nnn
			return ErrUnsupportedOpcode
		}
	case 0x1: // JP nnn
		vm.pc = op.NNN()
	case 0x2: // CALL nnn
		return vm.callSubroutine(op.NNN())
	case 0x3: // SE Vx, kk
		vm.skipIf(vm.regV[op.X()] == op.NN())
	case 0x4: // SNE Vx, kk
		vm.skipIf(vm.regV[op.X()] != op.NN())
	case 0x5:
		if op.N() != 0 {
			return ErrUnknownOpcode
		}
		// SE Vx, Vy
		vm.skipIf(vm.regV[op.X()] == vm.regV[op.Y()])
	case 0x6: // LD Vx, kk
		vm.regV[op.X()] = op.NN()
	case 0x7: // ADD Vx, kk
		vm.regV[op.X()] += op.NN()
	case 0x8:
		return vm.executeALU(op)
	case 0x9:
		if op.N() != 0 {
			return ErrUnknownOpcode
		}
		// SNE Vx, Vy
		vm.skipIf(vm.regV[op.X()] != vm.regV[op.Y()])
	case 0xA: // LD I, nnn
		vm.regI = op.NNN()
	case 0xB: // JP V0, nnn
		vm.pc = op.NNN() + uint16(vm.regV[0])
	case 0xC: // RND Vx, kk
		vm.regV[op.X()] = uint8(vm.rand.Intn(256)) & op.NN()
	case 0xD: // DRW Vx, Vy, n
		return vm.drawSprite(vm.regV[op.X()], vm.regV[op.Y()], op.N())
	case 0xE:
		return vm.executeKeys(op)
	case 0xF:
		return vm.executeMisc(op)
	}
	return nil
}

func (vm *C8VM) executeALU(op Opcode) error {
	x, y := op.X(), op.Y()
	switch op.N() {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vm.regV[y]
	case 0x1: // OR Vx, Vy
		vm.regV[x] |= vm.regV[y]
		vm.resetFlagQuirk()
	case 0x2: // AND Vx, Vy
		vm.regV[x] &= vm.regV[y]
		vm.resetFlagQuirk()
	case 0x3: // XOR Vx, Vy
		vm.regV[x] ^= vm.regV[y]
		vm.resetFlagQuirk()
	case 0x4: // ADD Vx, Vy
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[x] = uint8(sum)
		vm.regV[0xF] = boolToFlag(sum > 0xFF)
	case 0x5: // SUB Vx, Vy
		noBorrow := vm.regV[x] >= vm.regV[y]
		vm.regV[x] -= vm.regV[y]
		vm.regV[0xF] = boolToFlag(noBorrow)
	case 0x6: // SHR Vx, Vy
		out := vm.regV[y] & 0x01
		vm.regV[x] = vm.regV[y] >> 1
		vm.regV[0xF] = out
	case 0x7: // SUBN Vx, Vy
		noBorrow := vm.regV[y] >= vm.regV[x]
		vm.regV[x] = vm.regV[y] - vm.regV[x]
		vm.regV[0xF] = boolToFlag(noBorrow)
	case 0xE: // SHL Vx, Vy
		out := vm.regV[y] >> 7
		vm.regV[x] = vm.regV[y] << 1
		vm.regV[0xF] = out
	default:
		return ErrUnknownOpcode
	}
	return nil
}

func (vm *C8VM) executeKeys(op Opcode) error {
	var pressed bool
	switch op.NN() {
	case 0x9E: // SKP Vx
		pressed = true
	case 0xA1: // SKNP Vx
		pressed = false
	default:
		return ErrUnknownOpcode
	}
	key := vm.regV[op.X()]
	if key >= KeyCount {
		return ErrInvalidKey
	}
	vm.skipIf(vm.keys[key] == pressed)
	return nil
}

func (vm *C8VM) executeMisc(op Opcode) error {
	x := op.X()
	switch op.NN() {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		vm.awaitKey(x)
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
	case 0x29: // LD F, Vx
		if vm.regV[x] > 0xF {
			return ErrInvalidDigit
		}
		vm.regI = glyphAddr(vm.regV[x])
	case 0x33: // LD B, Vx
		if !vm.inMemory(vm.regI, 3) {
			return ErrMemoryBounds
		}
		v := vm.regV[x]
		vm.memory[vm.regI] = v / 100
		vm.memory[vm.regI+1] = (v / 10) % 10
		vm.memory[vm.regI+2] = v % 10
	case 0x55: // LD [I], Vx
		if !vm.inMemory(vm.regI, int(x)+1) {
			return ErrMemoryBounds
		}
		copy(vm.memory[vm.regI:], vm.regV[:x+1])
		vm.incrementIndexQuirk(x)
	case 0x65: // LD Vx, [I]
		if !vm.inMemory(vm.regI, int(x)+1) {
			return ErrMemoryBounds
		}
		copy(vm.regV[:x+1], vm.memory[vm.regI:])
		vm.incrementIndexQuirk(x)
	default:
		return ErrUnknownOpcode
	}
	return nil
}

func (vm *C8VM) clearScreen() {
	vm.pixels = [DisplaySize]bool{}
	vm.drawFlag = true
}

func (vm *C8VM) callSubroutine(addr uint16) error {
	if int(vm.sp) >= stackSize {
		return ErrStackOverflow
	}
	vm.stack[vm.sp] = vm.pc
	vm.sp++
	vm.pc = addr
	return nil
}

func (vm *C8VM) returnFromSubroutine() error {
	if vm.sp == 0 {
		return ErrStackUnderflow
	}
	vm.sp--
	vm.pc = vm.stack[vm.sp]
	return nil
}

// skipIf skips the next instruction when cond holds
func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2
	}
}

func (vm *C8VM) resetFlagQuirk() {
	if vm.quirks.VFReset {
		vm.regV[0xF] = 0
	}
}

func (vm *C8VM) incrementIndexQuirk(x uint8) {
	if vm.quirks.IncrementIndex {
		vm.regI += uint16(x) + 1
	}
}

// awaitKey stores the lowest pressed key in Vx. With no key pressed the
// program counter is rewound so the instruction runs again next cycle.
func (vm *C8VM) awaitKey(x uint8) {
	for key := uint8(0); key < KeyCount; key++ {
		if vm.keys[key] {
			vm.regV[x] = key
			return
		}
	}
	vm.pc -= 2
}

// drawSprite XORs an n byte sprite read from I onto the display. The start
// position wraps around the screen, pixels past the right or bottom edge are
// clipped. VF is set when a lit pixel is turned off.
func (vm *C8VM) drawSprite(vx, vy, n uint8) error {
	if !vm.inMemory(vm.regI, int(n)) {
		return ErrMemoryBounds
	}
	x := int(vx) & (ScreenWidth - 1)
	y := int(vy) & (ScreenHeight - 1)

	vm.regV[0xF] = 0
	for row := 0; row < int(n); row++ {
		py := y + row
		if py >= ScreenHeight {
			break
		}
		spriteByte := vm.memory[int(vm.regI)+row]
		for col := 0; col < 8; col++ {
			px := x + col
			if px >= ScreenWidth {
				break
			}
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			idx := py*ScreenWidth + px
			if vm.pixels[idx] {
				vm.regV[0xF] = 1
			}
			vm.pixels[idx] = !vm.pixels[idx]
		}
	}
	vm.drawFlag = true
	return nil
}

// inMemory reports whether n bytes starting at addr lie inside memory
func (vm *C8VM) inMemory(addr uint16, n int) bool {
	return int(addr)+n <= totalMemory
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
