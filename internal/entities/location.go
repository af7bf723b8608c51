package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
)

// City — верхний уровень географии доставки (governorate).
type City struct {
	ID        int64
	NameLocal string
	NameAlt   string
}

// District — район внутри города.
type District struct {
	ID        int64
	CityID    int64
	NameLocal string
	NameAlt   string
}

type Cities []City

type Districts []District

var ErrInvalidLocations = errors.New("invalid cached locations")

func (c *Cities) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Cities) Unmarshal(data []byte) error {
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocations, err)
	}
	return nil
}

func (d *Districts) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Districts) Unmarshal(data []byte) error {
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocations, err)
	}
	return nil
}

func init() {
	gob.Register(City{})
	gob.Register(District{})
}
