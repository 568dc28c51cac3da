package classfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanInstructions(t *testing.T) {
	var testCases = []struct {
		description string
		code        []byte
		expect      []uint16
		hasError    bool
	}{
		{
			description: "simple operands",
			code: []byte{
				0x2a,             // aload_0
				0xbb, 0x00, 0x05, // new #5
				0x59,             // dup
				0xb7, 0x00, 0x06, // invokespecial #6
				0x12, 0x07, // ldc #7
				0xc0, 0x00, 0x08, // checkcast #8
				0xb1, // return
			},
			expect: []uint16{5, 6, 7, 8},
		},
		{
			description: "tableswitch alignment",
			code: []byte{
				0x1a,             // iload_0 pc=0
				0xaa, 0x00, 0x00, // tableswitch pc=1, padding 2
				0x00, 0x00, 0x00, 0x10, // default
				0x00, 0x00, 0x00, 0x00, // low
				0x00, 0x00, 0x00, 0x01, // high
				0x00, 0x00, 0x00, 0x10, // offset 0
				0x00, 0x00, 0x00, 0x10, // offset 1
				0xbb, 0x00, 0x09, // new #9
				0xb1,
			},
			expect: []uint16{9},
		},
		{
			description: "lookupswitch alignment",
			code: []byte{
				0xab, 0x00, 0x00, 0x00, // lookupswitch pc=0, padding 3
				0x00, 0x00, 0x00, 0x10, // default
				0x00, 0x00, 0x00, 0x01, // npairs
				0x00, 0x00, 0x00, 0x07, 0x00, 0x00, 0x00, 0x10, // pair
				0xc1, 0x00, 0x0a, // instanceof #10
				0xb1,
			},
			expect: []uint16{10},
		},
		{
			description: "wide iinc",
			code: []byte{
				0xc4, 0x84, 0x00, 0x01, 0x00, 0x02, // wide iinc
				0xc4, 0x15, 0x01, 0x00, // wide iload
				0xb2, 0x00, 0x03, // getstatic #3
				0xb1,
			},
			expect: []uint16{3},
		},
		{
			description: "invokeinterface and multianewarray",
			code: []byte{
				0xb9, 0x00, 0x04, 0x01, 0x00, // invokeinterface #4
				0xc5, 0x00, 0x0b, 0x02, // multianewarray #11 dim 2
				0xba, 0x00, 0x0c, 0x00, 0x00, // invokedynamic is not visited
				0xb1,
			},
			expect: []uint16{4, 11},
		},
		{
			description: "invalid opcode",
			code:        []byte{0xcb},
			hasError:    true,
		},
		{
			description: "truncated operand",
			code:        []byte{0xbb, 0x00},
			hasError:    true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var operands []uint16
			err := scanInstructions(testCase.code, func(op opcode, operand uint16) error {
				operands = append(operands, operand)
				return nil
			})
			if testCase.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, operands)
		})
	}
}
