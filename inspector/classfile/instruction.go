package classfile

import (
	"encoding/binary"
	"fmt"
)

type opcode uint8

const (
	opLdc             opcode = 0x12
	opLdcW            opcode = 0x13
	opIinc            opcode = 0x84
	opTableSwitch     opcode = 0xaa
	opLookupSwitch    opcode = 0xab
	opGetStatic       opcode = 0xb2
	opPutStatic       opcode = 0xb3
	opGetField        opcode = 0xb4
	opPutField        opcode = 0xb5
	opInvokeVirtual   opcode = 0xb6
	opInvokeSpecial   opcode = 0xb7
	opInvokeStatic    opcode = 0xb8
	opInvokeInterface opcode = 0xb9
	opInvokeDynamic   opcode = 0xba
	opNew             opcode = 0xbb
	opANewArray       opcode = 0xbd
	opCheckCast       opcode = 0xc0
	opInstanceOf      opcode = 0xc1
	opWide            opcode = 0xc4
	opMultiANewArray  opcode = 0xc5
)

// instructionLengths holds fixed instruction lengths including opcode, 0 marks variable or invalid opcodes
var instructionLengths = func() [256]uint8 {
	var ret [256]uint8
	set := func(from, to int, length uint8) {
		for op := from; op <= to; op++ {
			ret[op] = length
		}
	}
	set(0x00, 0x0f, 1) // nop .. dconst_1
	set(0x10, 0x10, 2) // bipush
	set(0x11, 0x11, 3) // sipush
	set(0x12, 0x12, 2) // ldc
	set(0x13, 0x14, 3) // ldc_w, ldc2_w
	set(0x15, 0x19, 2) // iload .. aload
	set(0x1a, 0x35, 1) // xload_n, xaload
	set(0x36, 0x3a, 2) // istore .. astore
	set(0x3b, 0x83, 1) // xstore_n, xastore, stack, arithmetic
	set(0x84, 0x84, 3) // iinc
	set(0x85, 0x98, 1) // conversions, comparisons
	set(0x99, 0xa8, 3) // if*, goto, jsr
	set(0xa9, 0xa9, 2) // ret
	set(0xac, 0xb1, 1) // returns
	set(0xb2, 0xb8, 3) // field access, invocations
	set(0xb9, 0xba, 5) // invokeinterface, invokedynamic
	set(0xbb, 0xbb, 3) // new
	set(0xbc, 0xbc, 2) // newarray
	set(0xbd, 0xbd, 3) // anewarray
	set(0xbe, 0xbf, 1) // arraylength, athrow
	set(0xc0, 0xc1, 3) // checkcast, instanceof
	set(0xc2, 0xc3, 1) // monitorenter, monitorexit
	set(0xc5, 0xc5, 4) // multianewarray
	set(0xc6, 0xc7, 3) // ifnull, ifnonnull
	set(0xc8, 0xc9, 5) // goto_w, jsr_w
	set(0xca, 0xca, 1) // breakpoint
	set(0xfe, 0xff, 1) // impdep1, impdep2
	return ret
}()

// scanInstructions walks bytecode and calls visit with every constant pool operand
func scanInstructions(code []byte, visit func(op opcode, operand uint16) error) error {
	for pc := 0; pc < len(code); {
		op := opcode(code[pc])
		length, err := instructionLength(code, pc)
		if err != nil {
			return err
		}
		if pc+length > len(code) {
			return fmt.Errorf("instruction %#x at %d: truncated", uint8(op), pc)
		}
		switch op {
		case opLdc:
			if err = visit(op, uint16(code[pc+1])); err != nil {
				return err
			}
		case opLdcW, opGetStatic, opPutStatic, opGetField, opPutField,
			opInvokeVirtual, opInvokeSpecial, opInvokeStatic, opInvokeInterface,
			opNew, opANewArray, opCheckCast, opInstanceOf, opMultiANewArray:
			if err = visit(op, binary.BigEndian.Uint16(code[pc+1:])); err != nil {
				return err
			}
		}
		pc += length
	}
	return nil
}

func instructionLength(code []byte, pc int) (int, error) {
	op := opcode(code[pc])
	switch op {
	case opTableSwitch:
		base := pc + 1 + padding(pc)
		if base+12 > len(code) {
			return 0, fmt.Errorf("tableswitch at %d: truncated", pc)
		}
		low := int32(binary.BigEndian.Uint32(code[base+4:]))
		high := int32(binary.BigEndian.Uint32(code[base+8:]))
		if high < low {
			return 0, fmt.Errorf("tableswitch at %d: invalid range %d..%d", pc, low, high)
		}
		return base - pc + 12 + int(high-low+1)*4, nil
	case opLookupSwitch:
		base := pc + 1 + padding(pc)
		if base+8 > len(code) {
			return 0, fmt.Errorf("lookupswitch at %d: truncated", pc)
		}
		pairs := int32(binary.BigEndian.Uint32(code[base+4:]))
		if pairs < 0 {
			return 0, fmt.Errorf("lookupswitch at %d: invalid pair count %d", pc, pairs)
		}
		return base - pc + 8 + int(pairs)*8, nil
	case opWide:
		if pc+1 >= len(code) {
			return 0, fmt.Errorf("wide at %d: truncated", pc)
		}
		if opcode(code[pc+1]) == opIinc {
			return 6, nil
		}
		return 4, nil
	}
	length := instructionLengths[op]
	if length == 0 {
		return 0, fmt.Errorf("invalid opcode %#x at %d", uint8(op), pc)
	}
	return int(length), nil
}

// padding returns number of alignment bytes following a switch opcode at pc
func padding(pc int) int {
	return (4 - (pc+1)%4) % 4
}
