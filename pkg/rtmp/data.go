package rtmp

import "fmt"

func (d *Demuxer) demuxData(msg *Message) ([]Event, error) {
	items, err := decodeAMF(msg)
	if err != nil {
		return nil, err
	}

	// publishers send metadata wrapped in @setDataFrame and some servers forward it as is
	if getString(items, 0) == "@setDataFrame" {
		items = items[1:]
	}

	if getString(items, 0) != "onMetaData" {
		return nil, nil
	}

	obj := getObject(items, 1)
	if obj == nil {
		return nil, fmt.Errorf("%w: onMetaData without object", ErrWrongData)
	}

	if v, ok := obj["audiosamplerate"].(float64); ok && v >= 0 {
		d.sampleRate = uint32(v)
	}

	return []Event{MetadataReceived{Values: obj}}, nil
}

func (d *Demuxer) demuxCommand(msg *Message) ([]Event, error) {
	items, err := decodeAMF(msg)
	if err != nil {
		return nil, err
	}

	// onStatus, transaction, null, info object
	if getString(items, 0) != "onStatus" {
		return nil, nil
	}

	obj := getObject(items, 3)
	if obj == nil {
		return nil, fmt.Errorf("%w: onStatus without info", ErrWrongData)
	}

	code, ok := obj["code"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: onStatus without code", ErrWrongData)
	}

	return []Event{StatusUpdated{Code: ParseStatusCode(code), Raw: code}}, nil
}
