// Package requests defines the video class-specific request constants from
// UVC spec 1.5, section 4.
package requests

import "fmt"

type RequestType uint8

const (
	RequestTypeVideoInterfaceSetRequest RequestType = 0b00100001
	RequestTypeDataEndpointSetRequest   RequestType = 0b00100010
	RequestTypeVideoInterfaceGetRequest RequestType = 0b10100001
	RequestTypeDataEndpointGetRequest   RequestType = 0b10100010
)

type RequestCode uint8

const (
	RequestCodeUndefined RequestCode = 0x00
	RequestCodeSetCur    RequestCode = 0x01
	RequestCodeGetCur    RequestCode = 0x81
	RequestCodeGetMin    RequestCode = 0x82
	RequestCodeGetMax    RequestCode = 0x83
	RequestCodeGetRes    RequestCode = 0x84
	RequestCodeGetLen    RequestCode = 0x85
	RequestCodeGetInfo   RequestCode = 0x86
	RequestCodeGetDef    RequestCode = 0x87
)

func (rc RequestCode) String() string {
	switch rc {
	case RequestCodeSetCur:
		return "SET_CUR"
	case RequestCodeGetCur:
		return "GET_CUR"
	case RequestCodeGetMin:
		return "GET_MIN"
	case RequestCodeGetMax:
		return "GET_MAX"
	case RequestCodeGetRes:
		return "GET_RES"
	case RequestCodeGetLen:
		return "GET_LEN"
	case RequestCodeGetInfo:
		return "GET_INFO"
	case RequestCodeGetDef:
		return "GET_DEF"
	default:
		return fmt.Sprintf("RequestCode(0x%02x)", uint8(rc))
	}
}
