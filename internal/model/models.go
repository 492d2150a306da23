package model

// ProxyEntity is the stored row of a profile. Bean holds the encoded
// payload of the variant selected by Type.
type ProxyEntity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	GroupID   int64 `gorm:"index:groupId;not null"`
	Type      int32 `gorm:"not null"`
	UserOrder int64 `gorm:"not null;default:0"`
	Tx        int64 `gorm:"not null;default:0"`
	Rx        int64 `gorm:"not null;default:0"`
	Bean      []byte
}

func (ProxyEntity) TableName() string {
	return "proxy_entities"
}
