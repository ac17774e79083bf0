package validate

// Draft is the transient registration form. It is never persisted.
type Draft struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	FirstName       string
	LastName        string
	DOB             string
}

// Validate runs every registration rule and collects one message per field.
func (d Draft) Validate() Fields {
	f := Fields{}
	f.Set(FieldUsername, Username(d.Username))
	f.Set(FieldPassword, Password(d.Password))
	f.Set(FieldEmail, Email(d.Email))
	f.Set(FieldFirstName, Name(d.FirstName, "first name"))
	f.Set(FieldLastName, Name(d.LastName, "last name"))
	f.Set(FieldDOB, DateOfBirth(d.DOB))
	f.Set(FieldConfirmPassword, Confirmation(d.Password, d.ConfirmPassword))
	return f
}
