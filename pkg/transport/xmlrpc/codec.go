package xmlrpc

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"cadbridge/pkg/bridge"
)

// MethodCall is a decoded XML-RPC <methodCall>.
type MethodCall struct {
	MethodName string
	Params     []Value
}

// Value is the scalar + struct + array subset of the XML-RPC value grammar
// actually exercised by tool templates (SPEC_FULL.md §15): string, int,
// double, bool, array, struct. dateTime.iso8601 and base64 are
// intentionally unsupported since no tool needs them.
type Value struct {
	String string
	Int    *int
	Double *float64
	Bool   *bool
	Array  []Value
	Struct []structMember
}

type structMember struct {
	Name  string `xml:"name"`
	Value Value  `xml:"value"`
}

type xmlMethodCall struct {
	XMLName    xml.Name `xml:"methodCall"`
	MethodName string   `xml:"methodName"`
	Params     struct {
		Param []struct {
			Value xmlValue `xml:"value"`
		} `xml:"param"`
	} `xml:"params"`
}

type xmlValue struct {
	String  *string       `xml:"string"`
	Int     *int          `xml:"int"`
	I4      *int          `xml:"i4"`
	Double  *float64      `xml:"double"`
	Boolean *int          `xml:"boolean"`
	Array   *xmlArray     `xml:"array"`
	Struct  *xmlStruct    `xml:"struct"`
	Chardata string       `xml:",chardata"`
}

type xmlArray struct {
	Data struct {
		Value []xmlValue `xml:"value"`
	} `xml:"data"`
}

type xmlStruct struct {
	Member []struct {
		Name  string   `xml:"name"`
		Value xmlValue `xml:"value"`
	} `xml:"member"`
}

// DecodeMethodCall parses an XML-RPC <methodCall> document.
func DecodeMethodCall(r io.Reader) (*MethodCall, error) {
	var raw xmlMethodCall
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	call := &MethodCall{MethodName: raw.MethodName}
	for _, p := range raw.Params.Param {
		call.Params = append(call.Params, fromXMLValue(p.Value))
	}
	return call, nil
}

func fromXMLValue(v xmlValue) Value {
	switch {
	case v.Int != nil:
		return Value{Int: v.Int}
	case v.I4 != nil:
		return Value{Int: v.I4}
	case v.Double != nil:
		return Value{Double: v.Double}
	case v.Boolean != nil:
		b := *v.Boolean != 0
		return Value{Bool: &b}
	case v.Array != nil:
		out := make([]Value, 0, len(v.Array.Data.Value))
		for _, item := range v.Array.Data.Value {
			out = append(out, fromXMLValue(item))
		}
		return Value{Array: out}
	case v.Struct != nil:
		members := make([]structMember, 0, len(v.Struct.Member))
		for _, m := range v.Struct.Member {
			members = append(members, structMember{Name: m.Name, Value: fromXMLValue(m.Value)})
		}
		return Value{Struct: members}
	case v.String != nil:
		return Value{String: *v.String}
	default:
		return Value{String: v.Chardata}
	}
}

// ToAny converts a Value into a plain Go value suitable for
// bridge.ExecutionRequest.Params.
func (v Value) ToAny() any {
	switch {
	case v.Int != nil:
		return *v.Int
	case v.Double != nil:
		return *v.Double
	case v.Bool != nil:
		return *v.Bool
	case v.Array != nil:
		out := make([]any, 0, len(v.Array))
		for _, item := range v.Array {
			out = append(out, item.ToAny())
		}
		return out
	case v.Struct != nil:
		out := make(map[string]any, len(v.Struct))
		for _, m := range v.Struct {
			out[m.Name] = m.Value.ToAny()
		}
		return out
	default:
		return v.String
	}
}

// FromAny converts a plain Go value into a Value for encoding in a response.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{String: ""}
	case string:
		return Value{String: t}
	case bool:
		b := t
		return Value{Bool: &b}
	case int:
		n := t
		return Value{Int: &n}
	case int64:
		n := int(t)
		return Value{Int: &n}
	case float64:
		d := t
		return Value{Double: &d}
	case []any:
		out := make([]Value, 0, len(t))
		for _, item := range t {
			out = append(out, FromAny(item))
		}
		return Value{Array: out}
	case map[string]any:
		members := make([]structMember, 0, len(t))
		for k, item := range t {
			members = append(members, structMember{Name: k, Value: FromAny(item)})
		}
		return Value{Struct: members}
	default:
		return Value{String: fmt.Sprintf("%v", t)}
	}
}

func decodeExecuteParams(params []Value) (method string, args map[string]any, timeoutMS int, err error) {
	if len(params) < 1 {
		return "", nil, 0, fmt.Errorf("execute requires at least a method name parameter")
	}
	method = params[0].String

	if len(params) > 1 {
		if m, ok := params[1].ToAny().(map[string]any); ok {
			args = m
		}
	}
	if len(params) > 2 {
		if n, ok := params[2].ToAny().(int); ok {
			timeoutMS = n
		}
	}
	return method, args, timeoutMS, nil
}

func executionResultToValue(result bridge.ExecutionResult) Value {
	m := map[string]any{
		"success":    result.Success,
		"stdout":     result.Stdout,
		"stderr":     result.Stderr,
		"elapsed_ms": int(result.ElapsedMS),
	}
	if result.Success {
		m["result"] = result.Result
	} else {
		m["error_kind"] = string(result.ErrorKind)
		m["error_message"] = result.ErrorMessage
		m["error_traceback"] = result.ErrorTraceback
	}
	return FromAny(m)
}

type xmlMethodResponse struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  *struct {
		Param []struct {
			Value toXML `xml:"value"`
		} `xml:"param"`
	} `xml:"params,omitempty"`
	Fault *struct {
		Value toXML `xml:"value"`
	} `xml:"fault,omitempty"`
}

// toXML renders a Value back into XML-RPC's tagged-union element shape.
type toXML Value

func (v toXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "value"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	switch {
	case v.Int != nil:
		if err := e.EncodeElement(*v.Int, xml.StartElement{Name: xml.Name{Local: "int"}}); err != nil {
			return err
		}
	case v.Double != nil:
		if err := e.EncodeElement(*v.Double, xml.StartElement{Name: xml.Name{Local: "double"}}); err != nil {
			return err
		}
	case v.Bool != nil:
		n := 0
		if *v.Bool {
			n = 1
		}
		if err := e.EncodeElement(n, xml.StartElement{Name: xml.Name{Local: "boolean"}}); err != nil {
			return err
		}
	case v.Array != nil:
		type arrayXML struct {
			Data struct {
				Value []toXML `xml:"value"`
			} `xml:"data"`
		}
		arr := arrayXML{}
		for _, item := range v.Array {
			arr.Data.Value = append(arr.Data.Value, toXML(item))
		}
		if err := e.EncodeElement(arr, xml.StartElement{Name: xml.Name{Local: "array"}}); err != nil {
			return err
		}
	case v.Struct != nil:
		type memberXML struct {
			Name  string `xml:"name"`
			Value toXML  `xml:"value"`
		}
		type structXML struct {
			Member []memberXML `xml:"member"`
		}
		s := structXML{}
		for _, m := range v.Struct {
			s.Member = append(s.Member, memberXML{Name: m.Name, Value: toXML(m.Value)})
		}
		if err := e.EncodeElement(s, xml.StartElement{Name: xml.Name{Local: "struct"}}); err != nil {
			return err
		}
	default:
		if err := e.EncodeElement(v.String, xml.StartElement{Name: xml.Name{Local: "string"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}

func writeResponse(w http.ResponseWriter, params []Value) {
	resp := xmlMethodResponse{}
	resp.Params = &struct {
		Param []struct {
			Value toXML `xml:"value"`
		} `xml:"param"`
	}{}
	for _, p := range params {
		resp.Params.Param = append(resp.Params.Param, struct {
			Value toXML `xml:"value"`
		}{Value: toXML(p)})
	}
	writeXML(w, resp)
}

func writeFault(w http.ResponseWriter, code int, message string) {
	resp := xmlMethodResponse{}
	fault := FromAny(map[string]any{"faultCode": code, "faultString": message})
	resp.Fault = &struct {
		Value toXML `xml:"value"`
	}{Value: toXML(fault)}
	writeXML(w, resp)
}

func writeXML(w http.ResponseWriter, resp xmlMethodResponse) {
	w.Header().Set("Content-Type", "text/xml")
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(resp)
}
