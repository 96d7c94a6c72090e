package pb

import (
	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/maze"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const ContentType = "application/x-protobuf"

// Protobuf encodes session snapshots and events as google.protobuf.Struct messages.
type Protobuf struct{}

// ContentType is the media type of the encoded messages.
func (p *Protobuf) ContentType() string {
	return ContentType
}

// MarshalState encodes a session snapshot.
func (p *Protobuf) MarshalState(s game.State) ([]byte, error) {
	rows := make([]interface{}, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = row
	}
	msg, err := structpb.NewStruct(map[string]interface{}{
		"id":            s.ID.String(),
		"width":         s.Width,
		"height":        s.Height,
		"start":         position(s.Start),
		"end":           position(s.End),
		"position":      position(s.Position),
		"rows":          rows,
		"highlight":     s.Highlight,
		"steps":         s.Steps,
		"finished":      s.Finished,
		"visited":       s.Visited,
		"explored":      s.Explored,
		"solver_status": s.SolverStatus,
		"optimal":       s.Optimal,
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// MarshalEvent encodes a session event.
func (p *Protobuf) MarshalEvent(e game.Event) ([]byte, error) {
	fields := map[string]interface{}{
		"type": e.Type,
	}
	if e.Move != nil {
		fields["move"] = map[string]interface{}{
			"from":      position(e.Move.From),
			"to":        position(e.Move.To),
			"direction": string(e.Move.Direction),
		}
	}
	if e.Status != "" {
		fields["status"] = e.Status
		fields["path_length"] = e.PathLength
	}
	if e.Type == game.EventFinished {
		fields["steps"] = e.Steps
	}
	if e.Type == game.EventHighlight {
		fields["highlight"] = e.Highlight
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(msg)
}

// Unmarshal decodes any message produced by this encoder. Numbers come back
// as float64.
func (p *Protobuf) Unmarshal(b []byte) (map[string]interface{}, error) {
	msg := &structpb.Struct{}
	if err := proto.Unmarshal(b, msg); err != nil {
		return nil, err
	}
	return msg.AsMap(), nil
}

func position(pos maze.Position) map[string]interface{} {
	return map[string]interface{}{"x": pos.X, "y": pos.Y}
}
