package domain

var Tables = []interface{}{
	&Account{},
}
