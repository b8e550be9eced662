package cpu

// opcodeEntry is one row of the total opcode->(Instruction,AddressingMode)
// function. Every one of the 256 byte values has an entry; illegal and
// undocumented opcodes decode to their canonical mnemonic and the
// conventional addressing mode, same as real silicon.
type opcodeEntry struct {
	instr Instruction
	mode  AddressingMode
}

// opcodeTable is indexed directly by opcode byte. It is built once in
// init() from the literal matrix below so the table (and the totality
// invariant over it) is easy to audit row by row against a standard
// 6502/NMOS opcode chart.
var opcodeTable [256]opcodeEntry

type opRow struct {
	op    uint8
	instr Instruction
	mode  AddressingMode
}

// opcodeRows enumerates all 256 opcodes, 16 per row (0x_0 .. 0x_F),
// matching the widely published NMOS 6502 opcode matrix including
// illegal/undocumented opcodes.
var opcodeRows = []opRow{
	// 0x0_
	{0x00, InstrBRK, ModeImpl}, {0x01, InstrORA, ModeXInd}, {0x02, InstrJAM, ModeImpl}, {0x03, InstrSLO, ModeXInd},
	{0x04, InstrNOP, ModeZpg}, {0x05, InstrORA, ModeZpg}, {0x06, InstrASL, ModeZpg}, {0x07, InstrSLO, ModeZpg},
	{0x08, InstrPHP, ModeImpl}, {0x09, InstrORA, ModeImm}, {0x0A, InstrASL, ModeA}, {0x0B, InstrANC, ModeImm},
	{0x0C, InstrNOP, ModeAbs}, {0x0D, InstrORA, ModeAbs}, {0x0E, InstrASL, ModeAbs}, {0x0F, InstrSLO, ModeAbs},
	// 0x1_
	{0x10, InstrBPL, ModeRel}, {0x11, InstrORA, ModeIndY}, {0x12, InstrJAM, ModeImpl}, {0x13, InstrSLO, ModeIndY},
	{0x14, InstrNOP, ModeZpgX}, {0x15, InstrORA, ModeZpgX}, {0x16, InstrASL, ModeZpgX}, {0x17, InstrSLO, ModeZpgX},
	{0x18, InstrCLC, ModeImpl}, {0x19, InstrORA, ModeAbsY}, {0x1A, InstrNOP, ModeImpl}, {0x1B, InstrSLO, ModeAbsY},
	{0x1C, InstrNOP, ModeAbsX}, {0x1D, InstrORA, ModeAbsX}, {0x1E, InstrASL, ModeAbsX}, {0x1F, InstrSLO, ModeAbsX},
	// 0x2_
	{0x20, InstrJSR, ModeAbs}, {0x21, InstrAND, ModeXInd}, {0x22, InstrJAM, ModeImpl}, {0x23, InstrRLA, ModeXInd},
	{0x24, InstrBIT, ModeZpg}, {0x25, InstrAND, ModeZpg}, {0x26, InstrROL, ModeZpg}, {0x27, InstrRLA, ModeZpg},
	{0x28, InstrPLP, ModeImpl}, {0x29, InstrAND, ModeImm}, {0x2A, InstrROL, ModeA}, {0x2B, InstrANC, ModeImm},
	{0x2C, InstrBIT, ModeAbs}, {0x2D, InstrAND, ModeAbs}, {0x2E, InstrROL, ModeAbs}, {0x2F, InstrRLA, ModeAbs},
	// 0x3_
	{0x30, InstrBMI, ModeRel}, {0x31, InstrAND, ModeIndY}, {0x32, InstrJAM, ModeImpl}, {0x33, InstrRLA, ModeIndY},
	{0x34, InstrNOP, ModeZpgX}, {0x35, InstrAND, ModeZpgX}, {0x36, InstrROL, ModeZpgX}, {0x37, InstrRLA, ModeZpgX},
	{0x38, InstrSEC, ModeImpl}, {0x39, InstrAND, ModeAbsY}, {0x3A, InstrNOP, ModeImpl}, {0x3B, InstrRLA, ModeAbsY},
	{0x3C, InstrNOP, ModeAbsX}, {0x3D, InstrAND, ModeAbsX}, {0x3E, InstrROL, ModeAbsX}, {0x3F, InstrRLA, ModeAbsX},
	// 0x4_
	{0x40, InstrRTI, ModeImpl}, {0x41, InstrEOR, ModeXInd}, {0x42, InstrJAM, ModeImpl}, {0x43, InstrSRE, ModeXInd},
	{0x44, InstrNOP, ModeZpg}, {0x45, InstrEOR, ModeZpg}, {0x46, InstrLSR, ModeZpg}, {0x47, InstrSRE, ModeZpg},
	{0x48, InstrPHA, ModeImpl}, {0x49, InstrEOR, ModeImm}, {0x4A, InstrLSR, ModeA}, {0x4B, InstrALR, ModeImm},
	{0x4C, InstrJMP, ModeAbs}, {0x4D, InstrEOR, ModeAbs}, {0x4E, InstrLSR, ModeAbs}, {0x4F, InstrSRE, ModeAbs},
	// 0x5_
	{0x50, InstrBVC, ModeRel}, {0x51, InstrEOR, ModeIndY}, {0x52, InstrJAM, ModeImpl}, {0x53, InstrSRE, ModeIndY},
	{0x54, InstrNOP, ModeZpgX}, {0x55, InstrEOR, ModeZpgX}, {0x56, InstrLSR, ModeZpgX}, {0x57, InstrSRE, ModeZpgX},
	{0x58, InstrCLI, ModeImpl}, {0x59, InstrEOR, ModeAbsY}, {0x5A, InstrNOP, ModeImpl}, {0x5B, InstrSRE, ModeAbsY},
	{0x5C, InstrNOP, ModeAbsX}, {0x5D, InstrEOR, ModeAbsX}, {0x5E, InstrLSR, ModeAbsX}, {0x5F, InstrSRE, ModeAbsX},
	// 0x6_
	{0x60, InstrRTS, ModeImpl}, {0x61, InstrADC, ModeXInd}, {0x62, InstrJAM, ModeImpl}, {0x63, InstrRRA, ModeXInd},
	{0x64, InstrNOP, ModeZpg}, {0x65, InstrADC, ModeZpg}, {0x66, InstrROR, ModeZpg}, {0x67, InstrRRA, ModeZpg},
	{0x68, InstrPLA, ModeImpl}, {0x69, InstrADC, ModeImm}, {0x6A, InstrROR, ModeA}, {0x6B, InstrARR, ModeImm},
	{0x6C, InstrJMP, ModeInd}, {0x6D, InstrADC, ModeAbs}, {0x6E, InstrROR, ModeAbs}, {0x6F, InstrRRA, ModeAbs},
	// 0x7_
	{0x70, InstrBVS, ModeRel}, {0x71, InstrADC, ModeIndY}, {0x72, InstrJAM, ModeImpl}, {0x73, InstrRRA, ModeIndY},
	{0x74, InstrNOP, ModeZpgX}, {0x75, InstrADC, ModeZpgX}, {0x76, InstrROR, ModeZpgX}, {0x77, InstrRRA, ModeZpgX},
	{0x78, InstrSEI, ModeImpl}, {0x79, InstrADC, ModeAbsY}, {0x7A, InstrNOP, ModeImpl}, {0x7B, InstrRRA, ModeAbsY},
	{0x7C, InstrNOP, ModeAbsX}, {0x7D, InstrADC, ModeAbsX}, {0x7E, InstrROR, ModeAbsX}, {0x7F, InstrRRA, ModeAbsX},
	// 0x8_
	{0x80, InstrNOP, ModeImm}, {0x81, InstrSTA, ModeXInd}, {0x82, InstrNOP, ModeImm}, {0x83, InstrSAX, ModeXInd},
	{0x84, InstrSTY, ModeZpg}, {0x85, InstrSTA, ModeZpg}, {0x86, InstrSTX, ModeZpg}, {0x87, InstrSAX, ModeZpg},
	{0x88, InstrDEY, ModeImpl}, {0x89, InstrNOP, ModeImm}, {0x8A, InstrTXA, ModeImpl}, {0x8B, InstrANE, ModeImm},
	{0x8C, InstrSTY, ModeAbs}, {0x8D, InstrSTA, ModeAbs}, {0x8E, InstrSTX, ModeAbs}, {0x8F, InstrSAX, ModeAbs},
	// 0x9_
	{0x90, InstrBCC, ModeRel}, {0x91, InstrSTA, ModeIndY}, {0x92, InstrJAM, ModeImpl}, {0x93, InstrSHA, ModeIndY},
	{0x94, InstrSTY, ModeZpgX}, {0x95, InstrSTA, ModeZpgX}, {0x96, InstrSTX, ModeZpgY}, {0x97, InstrSAX, ModeZpgY},
	{0x98, InstrTYA, ModeImpl}, {0x99, InstrSTA, ModeAbsY}, {0x9A, InstrTXS, ModeImpl}, {0x9B, InstrTAS, ModeAbsY},
	{0x9C, InstrSHY, ModeAbsX}, {0x9D, InstrSTA, ModeAbsX}, {0x9E, InstrSHX, ModeAbsY}, {0x9F, InstrSHA, ModeAbsY},
	// 0xA_
	{0xA0, InstrLDY, ModeImm}, {0xA1, InstrLDA, ModeXInd}, {0xA2, InstrLDX, ModeImm}, {0xA3, InstrLAX, ModeXInd},
	{0xA4, InstrLDY, ModeZpg}, {0xA5, InstrLDA, ModeZpg}, {0xA6, InstrLDX, ModeZpg}, {0xA7, InstrLAX, ModeZpg},
	{0xA8, InstrTAY, ModeImpl}, {0xA9, InstrLDA, ModeImm}, {0xAA, InstrTAX, ModeImpl}, {0xAB, InstrLXA, ModeImm},
	{0xAC, InstrLDY, ModeAbs}, {0xAD, InstrLDA, ModeAbs}, {0xAE, InstrLDX, ModeAbs}, {0xAF, InstrLAX, ModeAbs},
	// 0xB_
	{0xB0, InstrBCS, ModeRel}, {0xB1, InstrLDA, ModeIndY}, {0xB2, InstrJAM, ModeImpl}, {0xB3, InstrLAX, ModeIndY},
	{0xB4, InstrLDY, ModeZpgX}, {0xB5, InstrLDA, ModeZpgX}, {0xB6, InstrLDX, ModeZpgY}, {0xB7, InstrLAX, ModeZpgY},
	{0xB8, InstrCLV, ModeImpl}, {0xB9, InstrLDA, ModeAbsY}, {0xBA, InstrTSX, ModeImpl}, {0xBB, InstrLAS, ModeAbsY},
	{0xBC, InstrLDY, ModeAbsX}, {0xBD, InstrLDA, ModeAbsX}, {0xBE, InstrLDX, ModeAbsY}, {0xBF, InstrLAX, ModeAbsY},
	// 0xC_
	{0xC0, InstrCPY, ModeImm}, {0xC1, InstrCMP, ModeXInd}, {0xC2, InstrNOP, ModeImm}, {0xC3, InstrDCP, ModeXInd},
	{0xC4, InstrCPY, ModeZpg}, {0xC5, InstrCMP, ModeZpg}, {0xC6, InstrDEC, ModeZpg}, {0xC7, InstrDCP, ModeZpg},
	{0xC8, InstrINY, ModeImpl}, {0xC9, InstrCMP, ModeImm}, {0xCA, InstrDEX, ModeImpl}, {0xCB, InstrSBX, ModeImm},
	{0xCC, InstrCPY, ModeAbs}, {0xCD, InstrCMP, ModeAbs}, {0xCE, InstrDEC, ModeAbs}, {0xCF, InstrDCP, ModeAbs},
	// 0xD_
	{0xD0, InstrBNE, ModeRel}, {0xD1, InstrCMP, ModeIndY}, {0xD2, InstrJAM, ModeImpl}, {0xD3, InstrDCP, ModeIndY},
	{0xD4, InstrNOP, ModeZpgX}, {0xD5, InstrCMP, ModeZpgX}, {0xD6, InstrDEC, ModeZpgX}, {0xD7, InstrDCP, ModeZpgX},
	{0xD8, InstrCLD, ModeImpl}, {0xD9, InstrCMP, ModeAbsY}, {0xDA, InstrNOP, ModeImpl}, {0xDB, InstrDCP, ModeAbsY},
	{0xDC, InstrNOP, ModeAbsX}, {0xDD, InstrCMP, ModeAbsX}, {0xDE, InstrDEC, ModeAbsX}, {0xDF, InstrDCP, ModeAbsX},
	// 0xE_
	{0xE0, InstrCPX, ModeImm}, {0xE1, InstrSBC, ModeXInd}, {0xE2, InstrNOP, ModeImm}, {0xE3, InstrISC, ModeXInd},
	{0xE4, InstrCPX, ModeZpg}, {0xE5, InstrSBC, ModeZpg}, {0xE6, InstrINC, ModeZpg}, {0xE7, InstrISC, ModeZpg},
	{0xE8, InstrINX, ModeImpl}, {0xE9, InstrSBC, ModeImm}, {0xEA, InstrNOP, ModeImpl}, {0xEB, InstrUSBC, ModeImm},
	{0xEC, InstrCPX, ModeAbs}, {0xED, InstrSBC, ModeAbs}, {0xEE, InstrINC, ModeAbs}, {0xEF, InstrISC, ModeAbs},
	// 0xF_
	{0xF0, InstrBEQ, ModeRel}, {0xF1, InstrSBC, ModeIndY}, {0xF2, InstrJAM, ModeImpl}, {0xF3, InstrISC, ModeIndY},
	{0xF4, InstrNOP, ModeZpgX}, {0xF5, InstrSBC, ModeZpgX}, {0xF6, InstrINC, ModeZpgX}, {0xF7, InstrISC, ModeZpgX},
	{0xF8, InstrSED, ModeImpl}, {0xF9, InstrSBC, ModeAbsY}, {0xFA, InstrNOP, ModeImpl}, {0xFB, InstrISC, ModeAbsY},
	{0xFC, InstrNOP, ModeAbsX}, {0xFD, InstrSBC, ModeAbsX}, {0xFE, InstrINC, ModeAbsX}, {0xFF, InstrISC, ModeAbsX},
}

func init() {
	for _, row := range opcodeRows {
		opcodeTable[row.op] = opcodeEntry{instr: row.instr, mode: row.mode}
	}
}

// Decode returns the (Instruction, AddressingMode) pair the opcode
// table assigns to op. The table is total: every byte value decodes
// to something, never an error.
func Decode(op uint8) (Instruction, AddressingMode) {
	e := opcodeTable[op]
	return e.instr, e.mode
}
