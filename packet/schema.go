/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package packet

// PacketID is the wire id of a packet, sent as the first byte of every
// packet.
type PacketID uint8

const (
	IDC2SPlayerJoinRequest PacketID = iota
	IDS2CPlayerJoinResponse
	IDC2SPlayerInputSnapshot
	IDS2CPlayerStateSnapshot
	IDS2CPlayerCreate
	IDC2STowerBuildRequest
	IDS2CTowerCreate

	// PacketCount is the derived constant: the number of declared packet ids.
	PacketCount
)

func (id PacketID) String() string {
	switch id {
	case IDC2SPlayerJoinRequest:
		return "c2s_player_join_request"
	case IDS2CPlayerJoinResponse:
		return "s2c_player_join_response"
	case IDC2SPlayerInputSnapshot:
		return "c2s_player_input_snapshot"
	case IDS2CPlayerStateSnapshot:
		return "s2c_player_state_snapshot"
	case IDS2CPlayerCreate:
		return "s2c_player_create"
	case IDC2STowerBuildRequest:
		return "c2s_tower_build_request"
	case IDS2CTowerCreate:
		return "s2c_tower_create"
	default:
		return "unknown_packet"
	}
}

// Valid reports whether id is a declared packet id (id < PacketCount).
func (id PacketID) Valid() bool {
	return id < PacketCount
}

// Packet is implemented by every generated packet struct.
type Packet interface {
	ID() PacketID
	// WireSize returns the size in bytes of this packet's body, excluding
	// the leading id byte, as it would appear on the wire.
	WireSize() int
	Serialize(buf []byte, off *int)
}

// InputCommand is the composite field type declared for
// c2s_player_input_snapshot: tickNumber:u64, axisX:i32, axisY:i32.
type InputCommand struct {
	TickNumber uint64
	AxisX      int32
	AxisY      int32
}

const inputCommandWireSize = 8 + 4 + 4

func (c InputCommand) serialize(buf []byte, off *int) {
	WriteU64(buf, off, c.TickNumber)
	WriteI32(buf, off, c.AxisX)
	WriteI32(buf, off, c.AxisY)
}

func deserializeInputCommand(buf []byte, off *int) (InputCommand, error) {
	var c InputCommand
	var err error
	if c.TickNumber, err = ReadU64(buf, off); err != nil {
		return c, err
	}
	if c.AxisX, err = ReadI32(buf, off); err != nil {
		return c, err
	}
	if c.AxisY, err = ReadI32(buf, off); err != nil {
		return c, err
	}
	return c, nil
}

// C2SPlayerJoinRequest carries no fields beyond the id.
type C2SPlayerJoinRequest struct{}

func (C2SPlayerJoinRequest) ID() PacketID       { return IDC2SPlayerJoinRequest }
func (C2SPlayerJoinRequest) WireSize() int      { return 0 }
func (C2SPlayerJoinRequest) Serialize([]byte, *int) {}

func deserializeC2SPlayerJoinRequest(buf []byte, off *int) (C2SPlayerJoinRequest, error) {
	return C2SPlayerJoinRequest{}, nil
}

// S2CPlayerJoinResponse: success:u8, playerID:u32, worldL:i32, worldW:i32,
// spawnX:f32, spawnY:f32.
type S2CPlayerJoinResponse struct {
	Success  uint8
	PlayerID uint32
	WorldL   int32
	WorldW   int32
	SpawnX   float32
	SpawnY   float32
}

func (S2CPlayerJoinResponse) ID() PacketID  { return IDS2CPlayerJoinResponse }
func (S2CPlayerJoinResponse) WireSize() int { return 1 + 4 + 4 + 4 + 4 + 4 }

func (p S2CPlayerJoinResponse) Serialize(buf []byte, off *int) {
	WriteU8(buf, off, p.Success)
	WriteU32(buf, off, p.PlayerID)
	WriteI32(buf, off, p.WorldL)
	WriteI32(buf, off, p.WorldW)
	WriteF32(buf, off, p.SpawnX)
	WriteF32(buf, off, p.SpawnY)
}

func deserializeS2CPlayerJoinResponse(buf []byte, off *int) (S2CPlayerJoinResponse, error) {
	var p S2CPlayerJoinResponse
	var err error
	if p.Success, err = ReadU8(buf, off); err != nil {
		return p, err
	}
	if p.PlayerID, err = ReadU32(buf, off); err != nil {
		return p, err
	}
	if p.WorldL, err = ReadI32(buf, off); err != nil {
		return p, err
	}
	if p.WorldW, err = ReadI32(buf, off); err != nil {
		return p, err
	}
	if p.SpawnX, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.SpawnY, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	return p, nil
}

// C2SPlayerInputSnapshot: inputCommand { tickNumber:u64, axisX:i32, axisY:i32 }.
type C2SPlayerInputSnapshot struct {
	Command InputCommand
}

func (C2SPlayerInputSnapshot) ID() PacketID  { return IDC2SPlayerInputSnapshot }
func (C2SPlayerInputSnapshot) WireSize() int { return inputCommandWireSize }

func (p C2SPlayerInputSnapshot) Serialize(buf []byte, off *int) {
	p.Command.serialize(buf, off)
}

func deserializeC2SPlayerInputSnapshot(buf []byte, off *int) (C2SPlayerInputSnapshot, error) {
	cmd, err := deserializeInputCommand(buf, off)
	return C2SPlayerInputSnapshot{Command: cmd}, err
}

// S2CPlayerStateSnapshot: tickNumber:u64, xPos:f32, yPos:f32.
type S2CPlayerStateSnapshot struct {
	TickNumber uint64
	XPos       float32
	YPos       float32
}

func (S2CPlayerStateSnapshot) ID() PacketID  { return IDS2CPlayerStateSnapshot }
func (S2CPlayerStateSnapshot) WireSize() int { return 8 + 4 + 4 }

func (p S2CPlayerStateSnapshot) Serialize(buf []byte, off *int) {
	WriteU64(buf, off, p.TickNumber)
	WriteF32(buf, off, p.XPos)
	WriteF32(buf, off, p.YPos)
}

func deserializeS2CPlayerStateSnapshot(buf []byte, off *int) (S2CPlayerStateSnapshot, error) {
	var p S2CPlayerStateSnapshot
	var err error
	if p.TickNumber, err = ReadU64(buf, off); err != nil {
		return p, err
	}
	if p.XPos, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.YPos, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	return p, nil
}

// S2CPlayerCreate: playerID:u32, spawnX:f32, spawnY:f32.
type S2CPlayerCreate struct {
	PlayerID uint32
	SpawnX   float32
	SpawnY   float32
}

func (S2CPlayerCreate) ID() PacketID  { return IDS2CPlayerCreate }
func (S2CPlayerCreate) WireSize() int { return 4 + 4 + 4 }

func (p S2CPlayerCreate) Serialize(buf []byte, off *int) {
	WriteU32(buf, off, p.PlayerID)
	WriteF32(buf, off, p.SpawnX)
	WriteF32(buf, off, p.SpawnY)
}

func deserializeS2CPlayerCreate(buf []byte, off *int) (S2CPlayerCreate, error) {
	var p S2CPlayerCreate
	var err error
	if p.PlayerID, err = ReadU32(buf, off); err != nil {
		return p, err
	}
	if p.SpawnX, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.SpawnY, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	return p, nil
}

// C2STowerBuildRequest: xPos:f32, yPos:f32, towerDefIndex:u32.
type C2STowerBuildRequest struct {
	XPos          float32
	YPos          float32
	TowerDefIndex uint32
}

func (C2STowerBuildRequest) ID() PacketID  { return IDC2STowerBuildRequest }
func (C2STowerBuildRequest) WireSize() int { return 4 + 4 + 4 }

func (p C2STowerBuildRequest) Serialize(buf []byte, off *int) {
	WriteF32(buf, off, p.XPos)
	WriteF32(buf, off, p.YPos)
	WriteU32(buf, off, p.TowerDefIndex)
}

func deserializeC2STowerBuildRequest(buf []byte, off *int) (C2STowerBuildRequest, error) {
	var p C2STowerBuildRequest
	var err error
	if p.XPos, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.YPos, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.TowerDefIndex, err = ReadU32(buf, off); err != nil {
		return p, err
	}
	return p, nil
}

// S2CTowerCreate: xPos:f32, yPos:f32, towerDefIndex:u32, towerID:u32.
type S2CTowerCreate struct {
	XPos          float32
	YPos          float32
	TowerDefIndex uint32
	TowerID       uint32
}

func (S2CTowerCreate) ID() PacketID  { return IDS2CTowerCreate }
func (S2CTowerCreate) WireSize() int { return 4 + 4 + 4 + 4 }

func (p S2CTowerCreate) Serialize(buf []byte, off *int) {
	WriteF32(buf, off, p.XPos)
	WriteF32(buf, off, p.YPos)
	WriteU32(buf, off, p.TowerDefIndex)
	WriteU32(buf, off, p.TowerID)
}

func deserializeS2CTowerCreate(buf []byte, off *int) (S2CTowerCreate, error) {
	var p S2CTowerCreate
	var err error
	if p.XPos, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.YPos, err = ReadF32(buf, off); err != nil {
		return p, err
	}
	if p.TowerDefIndex, err = ReadU32(buf, off); err != nil {
		return p, err
	}
	if p.TowerID, err = ReadU32(buf, off); err != nil {
		return p, err
	}
	return p, nil
}
