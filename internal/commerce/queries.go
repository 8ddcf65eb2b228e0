package commerce

// GraphQL documents for the storefront API. The product fragments pull the
// booking metadata (location, duration, rating, reviews, group size) from the
// platform's custom key/value metafields.

const productFragment = `
fragment ExcursionFields on Product {
  id
  handle
  title
  description
  descriptionHtml
  priceRange {
    minVariantPrice { amount currencyCode }
  }
  compareAtPriceRange {
    minVariantPrice { amount currencyCode }
  }
  images(first: 10) {
    edges { node { url } }
  }
  variants(first: 10) {
    edges {
      node {
        id
        title
        availableForSale
        price { amount currencyCode }
      }
    }
  }
  metafields(identifiers: [
    {namespace: "custom", key: "location"},
    {namespace: "custom", key: "duration"},
    {namespace: "custom", key: "rating"},
    {namespace: "custom", key: "reviews_count"},
    {namespace: "custom", key: "group_size"}
  ]) {
    key
    value
  }
}`

const listProductsQuery = productFragment + `
query ListExcursions($first: Int!) {
  products(first: $first) {
    edges { node { ...ExcursionFields } }
  }
}`

const getProductQuery = productFragment + `
query GetExcursion($id: ID!) {
  product(id: $id) { ...ExcursionFields }
}`

const cartCreateMutation = `
mutation CartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const cartAttributesUpdateMutation = `
mutation CartAttributesUpdate($cartId: ID!, $attributes: [AttributeInput!]!) {
  cartAttributesUpdate(cartId: $cartId, attributes: $attributes) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const cartBuyerIdentityUpdateMutation = `
mutation CartBuyerIdentityUpdate($cartId: ID!, $buyerIdentity: CartBuyerIdentityInput!) {
  cartBuyerIdentityUpdate(cartId: $cartId, buyerIdentity: $buyerIdentity) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const customerAccessTokenCreateMutation = `
mutation CustomerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken { accessToken expiresAt }
    customerUserErrors { field message }
  }
}`

const customerCreateMutation = `
mutation CustomerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer { id email }
    customerUserErrors { field message }
  }
}`

const customerOrdersQuery = `
query CustomerOrders($token: String!, $first: Int!, $after: String) {
  customer(customerAccessToken: $token) {
    orders(first: $first, after: $after, reverse: true, sortKey: PROCESSED_AT) {
      pageInfo { hasNextPage endCursor }
      edges {
        cursor
        node {
          orderNumber
          processedAt
          financialStatus
          fulfillmentStatus
          totalPrice { amount currencyCode }
          lineItems(first: 20) {
            edges {
              node {
                title
                quantity
                originalTotalPrice { amount currencyCode }
                variant { image { url } }
              }
            }
          }
        }
      }
    }
  }
}`
