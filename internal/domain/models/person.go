package models

import (
	"time"

	"github.com/ayxworxfr/go_blog/pkg/crypter"
)

// Person 作者/读者模型
type Person struct {
	ID            uint64    `xorm:"pk autoincr bigint unsigned 'id'" json:"id"`
	Username      string    `xorm:"varchar(50) notnull unique 'username'" json:"username"`
	PrimaryEmail  string    `xorm:"varchar(50) notnull unique 'primary_email'" json:"primary_email"`
	Password      string    `xorm:"varchar(100) notnull 'password'" json:"password"`
	Status        int       `xorm:"int 'status'" json:"status"` // 1=正常，0=封禁
	CreateTime    time.Time `xorm:"created" json:"create_time"`
	UpdateTime    time.Time `xorm:"updated" json:"update_time"`
	LastLoginTime time.Time `xorm:"datetime 'last_login_time'" json:"last_login_time"`
}

func (p *Person) Verify(password string) bool {
	return crypter.Instance.Verify(password, p.Password)
}

func (p *Person) EncryptPassword() {
	p.Password = EncryptPassword(p.Password)
}

func EncryptPassword(password string) string {
	return crypter.Instance.Encrypt(password)
}
