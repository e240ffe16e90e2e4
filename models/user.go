package models

import (
	"context"
	"errors"
	"html"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/EliandyDumortier/pilotage-eclair/config"
	"github.com/EliandyDumortier/pilotage-eclair/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Email     *string   `gorm:"size:100;unique" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  *bool     `gorm:"not null" json:"is_active"`
	Role      UserRole  `gorm:"size:20;not null;default:analyste" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Password string   `json:"password" binding:"required"`
	IsActive *bool    `json:"is_active"`
	Role     UserRole `json:"role" binding:"required"`
}

type UpdateUserInput struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Role     UserRole `json:"role" binding:"required"`
}

/*
caches:
	User:$username
*/

func (user User) RemoveInstanceRedis() error {
	if err := config.RemoveRedisKey("User:" + user.Username); err != nil {
		return err
	}
	return nil
}

func (result *User) PrepareGive() {
	result.Password = ""
}

type LoginInfo struct {
	Token    string   `json:"token"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
	RoleName string   `json:"role_name"`
}

func tokenLifespan() time.Duration {
	hours, err := strconv.Atoi(os.Getenv("TOKEN_HOUR_LIFESPAN"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var err error
	var result LoginInfo

	user := User{}

	// get User info
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return &result, errors.New("invalid username or password")
		}
	}

	// check login credentials
	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return &result, errors.New("invalid username or password")
	}

	if !utils.DereferencePtr(user.IsActive) {
		return &result, errors.New("user is disabled")
	}

	// generate token & response
	token := uuid.New()
	result.Token = token.String()
	result.Name = user.Username
	result.Role = user.Role
	result.RoleName = user.Role.Label()

	// add new token to the user's tokens set
	if err := config.AddRedisSet("Tokens:"+user.Username, token.String()); err != nil {
		return nil, err
	}
	if err := config.SetRedisValue("Token:"+token.String(), user.Username, tokenLifespan()); err != nil {
		return &result, err
	}

	return &result, nil
}

// destroy current session
func Logout(ctx context.Context) (bool, error) {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return false, errors.New("token is required")
	}
	err := config.RemoveRedisKey("Token:" + token)
	if err != nil {
		return false, nil
	}
	// remove current token from tokens list
	username, ok := utils.GetUsernameFromContext(ctx)
	if !ok || username == "" {
		return false, errors.New("user not found")
	}
	if err := config.RemoveRedisSetMember("Tokens:"+username, token); err != nil {
		return false, err
	}
	return true, nil
}

// GetUserByUsername resolves the session user, redis cache first.
func GetUserByUsername(ctx context.Context, username string) (*User, error) {

	db := config.GetDB()
	var user User

	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return nil, err
	}
	if exists {
		return &user, nil
	}
	if err := db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

// list users, optionally narrowed to one role
func GetUsers(ctx context.Context, role string) ([]*User, error) {

	db := config.GetDB()
	var results []*User

	dbCtx := db.WithContext(ctx).Model(&User{})
	if role != "" {
		dbCtx = dbCtx.Where("role = ?", role)
	}
	if err := dbCtx.Order("username ASC").Find(&results).Error; err != nil {
		return nil, err
	}

	for i, u := range results {
		u.Password = ""
		results[i] = u
	}
	return results, nil
}

func CountUsers(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[User](ctx, "1 = 1")
}

func CountActiveUsers(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[User](ctx, "is_active = ?", true)
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	db := config.GetDB()
	var count int64

	if !input.Role.Valid() {
		return &User{}, errors.New("invalid user role")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return &User{}, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return &User{}, errors.New("invalid phone number")
		}
	}

	err := db.WithContext(ctx).Model(&User{}).Where("username = ?", input.Username).Or("email = ?", input.Email).Count(&count).Error
	if err != nil {
		return &User{}, err
	}
	if count > 0 {
		return &User{}, errors.New("duplicate username or email")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return &User{}, err
	}
	input.Email = strings.ToLower(input.Email)

	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	user := User{
		Username: html.EscapeString(strings.TrimSpace(input.Username)),
		Email:    utils.NilIfEmpty(input.Email),
		Phone:    input.Phone,
		Password: string(hashedPassword),
		IsActive: isActive,
		Role:     input.Role,
	}

	err = db.WithContext(ctx).Create(&user).Error
	if err != nil {
		return &User{}, err
	}
	user.Password = ""
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {

	result, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	result.PrepareGive()
	return result, nil
}

func UpdateUser(ctx context.Context, id int, input *UpdateUserInput) (*User, error) {

	db := config.GetDB()

	if !input.Role.Valid() {
		return nil, errors.New("invalid user role")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email address")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, errors.New("invalid phone number")
		}
	}

	result, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	previousUsername := result.Username
	result.Username = html.EscapeString(strings.TrimSpace(input.Username))
	result.Email = utils.NilIfEmpty(strings.ToLower(input.Email))
	result.Phone = input.Phone
	result.Role = input.Role

	if err := db.WithContext(ctx).Save(result).Error; err != nil {
		return nil, err
	}
	_ = config.RemoveRedisKey("User:" + previousUsername)
	result.PrepareGive()
	return result, nil
}

func SetUserActive(ctx context.Context, id int, active bool) (*User, error) {

	db := config.GetDB()

	result, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	result.IsActive = &active
	if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("is_active", active).Error; err != nil {
		return nil, err
	}
	_ = result.RemoveInstanceRedis()
	result.PrepareGive()
	return result, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {

	db := config.GetDB()

	result, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Delete(result).Error; err != nil {
		return nil, err
	}

	// drop cached sessions for the deleted user
	tokens, _ := config.GetRedisSetMembers("Tokens:" + result.Username)
	for _, t := range tokens {
		_ = config.RemoveRedisKey("Token:" + t)
	}
	_ = config.RemoveRedisKey("Tokens:" + result.Username)
	_ = result.RemoveInstanceRedis()

	result.PrepareGive()
	return result, nil
}
